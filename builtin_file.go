// builtin_file.go: the fs.* namespace.
package n7tya

import "os"

func init() {
	registerBuiltin("fs.read_file", fsReadFile)
	registerBuiltin("fs.write_file", fsWriteFile)
	registerBuiltin("fs.exists", fsExists)
	registerBuiltin("fs.remove", fsRemove)
	registerBuiltin("fs.read_dir", fsReadDir)
}

func pathArg(name string, args []Value) (string, error) {
	if len(args) < 1 || args[0].Tag != StrV {
		return "", runtimeErr("%s expects a Str path", name)
	}
	return args[0].Str(), nil
}

func fsReadFile(ip *Interp, args []Value) (Value, error) {
	path, err := pathArg("fs.read_file", args)
	if err != nil {
		return Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Value{}, runtimeErr("fs.read_file: %v", err)
	}
	return StrValue(string(data)), nil
}

func fsWriteFile(ip *Interp, args []Value) (Value, error) {
	path, err := pathArg("fs.write_file", args)
	if err != nil {
		return Value{}, err
	}
	if len(args) != 2 || args[1].Tag != StrV {
		return Value{}, runtimeErr("fs.write_file expects a Str path and Str contents")
	}
	if err := os.WriteFile(path, []byte(args[1].Str()), 0o644); err != nil {
		return Value{}, runtimeErr("fs.write_file: %v", err)
	}
	return NoneValue(), nil
}

func fsExists(ip *Interp, args []Value) (Value, error) {
	path, err := pathArg("fs.exists", args)
	if err != nil {
		return Value{}, err
	}
	_, statErr := os.Stat(path)
	return BoolValue(statErr == nil), nil
}

// fsRemove deletes a file, or a directory with its contents.
func fsRemove(ip *Interp, args []Value) (Value, error) {
	path, err := pathArg("fs.remove", args)
	if err != nil {
		return Value{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Value{}, runtimeErr("fs.remove: %v", err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return Value{}, runtimeErr("fs.remove: %v", err)
	}
	return NoneValue(), nil
}

func fsReadDir(ip *Interp, args []Value) (Value, error) {
	path, err := pathArg("fs.read_dir", args)
	if err != nil {
		return Value{}, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return Value{}, runtimeErr("fs.read_dir: %v", err)
	}
	items := make([]Value, len(entries))
	for i, e := range entries {
		items[i] = StrValue(e.Name())
	}
	return ListValue(items), nil
}
