package hooks

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

// podsModule exposes the installed project to Lua as the global pods
// table.
type podsModule struct {
	env *Env
}

// registerPodsModule installs the pods table into L.
func registerPodsModule(L *lua.LState, env *Env) {
	m := &podsModule{env: env}

	mod := L.NewTable()
	L.SetField(mod, "name", L.NewFunction(m.name))
	L.SetField(mod, "configurations", L.NewFunction(m.configurations))
	L.SetField(mod, "setting", L.NewFunction(m.setting))
	L.SetField(mod, "set_setting", L.NewFunction(m.setSetting))
	L.SetField(mod, "append_definition", L.NewFunction(m.appendDefinition))
	L.SetField(mod, "set_symroot", L.NewFunction(m.setSymroot))
	L.SetField(mod, "pods", L.NewFunction(m.pods))

	L.SetGlobal("pods", mod)
}

// name() -> string
// Returns the project name from the manifest.
func (m *podsModule) name(L *lua.LState) int {
	L.Push(lua.LString(m.env.ProjectName))
	return 1
}

// configurations() -> table
// Returns the build configuration names in creation order.
func (m *podsModule) configurations(L *lua.LState) int {
	tbl := L.NewTable()
	for _, cfg := range m.env.Project.BuildConfigurations() {
		tbl.Append(lua.LString(cfg.Name))
	}
	L.Push(tbl)
	return 1
}

// setting(config, key) -> string | table | nil
// Returns a build setting value. List settings come back as a table.
func (m *podsModule) setting(L *lua.LState) int {
	config := L.CheckString(1)
	key := L.CheckString(2)

	cfg := m.configuration(L, config)
	value, ok := cfg.Settings[key]
	if !ok {
		L.Push(lua.LNil)
		return 1
	}

	L.Push(settingToLua(L, value))
	return 1
}

// set_setting(config, key, value)
// Sets a build setting. value may be a string, number, boolean or a
// table of strings; booleans become the YES/NO strings Xcode expects.
func (m *podsModule) setSetting(L *lua.LState) int {
	config := L.CheckString(1)
	key := L.CheckString(2)
	raw := L.CheckAny(3)

	value, ok := settingFromLua(raw)
	if !ok {
		L.RaiseError("set_setting: unsupported value type %s", raw.Type())
		return 0
	}

	cfg := m.configuration(L, config)
	cfg.Settings[key] = value
	return 0
}

// append_definition(config, token)
// Appends a token to the configuration's preprocessor definitions,
// skipping tokens already present.
func (m *podsModule) appendDefinition(L *lua.LState) int {
	config := L.CheckString(1)
	token := L.CheckString(2)

	cfg := m.configuration(L, config)
	cfg.Settings.AppendToList(pbxproj.GCCPreprocessorDefinitions, token)
	return 0
}

// set_symroot(value)
// Sets the build output root on every configuration.
func (m *podsModule) setSymroot(L *lua.LState) int {
	value := L.CheckString(1)
	m.env.Project.SetSymroot(value)
	return 0
}

// pods() -> table
// Returns the installed pod names in manifest order.
func (m *podsModule) pods(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range m.env.PodNames {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

// configuration looks up a configuration by name, raising a Lua error
// when it does not exist.
func (m *podsModule) configuration(L *lua.LState, name string) *pbxproj.BuildConfiguration {
	cfg := m.env.Project.BuildConfiguration(name)
	if cfg == nil {
		L.RaiseError("unknown build configuration %q", name)
		return nil
	}
	return cfg
}

// settingToLua converts a stored build setting value to a Lua value.
func settingToLua(L *lua.LState, value any) lua.LValue {
	switch v := value.(type) {
	case string:
		return lua.LString(v)
	case []string:
		tbl := L.NewTable()
		for _, item := range v {
			tbl.Append(lua.LString(item))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, item := range v {
			if s, ok := item.(string); ok {
				tbl.Append(lua.LString(s))
			}
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}

// settingFromLua converts a Lua value to a storable build setting.
func settingFromLua(value lua.LValue) (any, bool) {
	switch v := value.(type) {
	case lua.LString:
		return string(v), true
	case lua.LNumber:
		return v.String(), true
	case lua.LBool:
		if bool(v) {
			return "YES", true
		}
		return "NO", true
	case *lua.LTable:
		items := make([]string, 0, v.Len())
		ok := true
		v.ForEach(func(_, item lua.LValue) {
			s, isStr := item.(lua.LString)
			if !isStr {
				ok = false
				return
			}
			items = append(items, string(s))
		})
		if !ok {
			return nil, false
		}
		return items, true
	default:
		return nil, false
	}
}
