package script

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/neatjs/neat/pkg/cookie"
	"github.com/neatjs/neat/pkg/neat"
)

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func module(name string, fns map[string]builtinFunc) *starlarkstruct.Module {
	members := make(starlark.StringDict, len(fns))
	for fn, impl := range fns {
		members[fn] = starlark.NewBuiltin(name+"."+fn, impl)
	}
	return &starlarkstruct.Module{Name: name, Members: members}
}

func none(err error) (starlark.Value, error) {
	if err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (r *Runner) storageModule() *starlarkstruct.Module {
	return module("storage", map[string]builtinFunc{
		"get": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var key string
			var def starlark.Value = starlark.None
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key, "default?", &def); err != nil {
				return nil, err
			}
			if v, ok := r.facade.Get(threadContext(thread), key); ok {
				return starlark.String(v), nil
			}
			return def, nil
		},
		"set": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var key, value string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key, "value", &value); err != nil {
				return nil, err
			}
			r.facade.Set(threadContext(thread), key, value)
			return starlark.None, nil
		},
		"remove": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var key string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key); err != nil {
				return nil, err
			}
			r.facade.Remove(threadContext(thread), key)
			return starlark.None, nil
		},
		"available": func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.Bool(r.facade.LocalAvailable(threadContext(thread))), nil
		},
	})
}

func (r *Runner) cookieModule() *starlarkstruct.Module {
	return module("cookie", map[string]builtinFunc{
		"get": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
				return nil, err
			}
			if v, ok := r.cookies.Get(name); ok {
				return starlark.String(v), nil
			}
			return starlark.None, nil
		},
		"set": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name, value string
			var days int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value, "days?", &days); err != nil {
				return nil, err
			}
			var err error
			if days == 0 {
				err = r.cookies.SetSession(name, value)
			} else {
				err = r.cookies.Set(name, value, days)
			}
			return none(err)
		},
		"delete": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
				return nil, err
			}
			return none(r.cookies.Delete(name))
		},
		"clear": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return none(r.cookies.ClearAll())
		},
		"names": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			raw, err := r.cookies.Jar().Cookie()
			if err != nil {
				return nil, err
			}
			var names []starlark.Value
			for _, n := range cookie.Names(raw) {
				names = append(names, starlark.String(n))
			}
			return starlark.NewList(names), nil
		},
	})
}

func helperModule() *starlarkstruct.Module {
	return module("neat", map[string]builtinFunc{
		"guid": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.String(neat.NewGUID()), nil
		},
		"hex_to_rgb": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var hex string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "hex", &hex); err != nil {
				return nil, err
			}
			rgb, err := neat.HexToRGB(hex)
			if err != nil {
				return nil, err
			}
			return starlark.String(rgb), nil
		},
		"url_param": func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name, url string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "url", &url); err != nil {
				return nil, err
			}
			return starlark.String(neat.URLParameterByName(name, url)), nil
		},
	})
}
