// builtin_sqlite.go: the sqlite.* namespace over database/sql.
//
// sqlite.open returns an integer handle. Handles live on the interpreter so
// scripts can pass them between functions; sqlite.close releases one.
package n7tya

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func init() {
	registerBuiltin("sqlite.open", sqliteOpen)
	registerBuiltin("sqlite.execute", sqliteExecute)
	registerBuiltin("sqlite.query", sqliteQuery)
	registerBuiltin("sqlite.close", sqliteClose)
}

func (ip *Interp) dbHandle(name string, args []Value) (*sql.DB, error) {
	if len(args) < 1 || args[0].Tag != IntV {
		return nil, runtimeErr("%s expects an Int handle", name)
	}
	db, ok := ip.dbs[args[0].Int()]
	if !ok {
		return nil, runtimeErr("%s: no open database with handle %d", name, args[0].Int())
	}
	return db, nil
}

func sqliteOpen(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != StrV {
		return Value{}, runtimeErr("sqlite.open expects a Str path")
	}
	db, err := sql.Open("sqlite3", args[0].Str())
	if err != nil {
		return Value{}, runtimeErr("sqlite.open: %v", err)
	}
	handle := ip.nextDB
	ip.nextDB++
	ip.dbs[handle] = db
	return IntValue(handle), nil
}

func sqliteExecute(ip *Interp, args []Value) (Value, error) {
	db, err := ip.dbHandle("sqlite.execute", args)
	if err != nil {
		return Value{}, err
	}
	if len(args) < 2 || args[1].Tag != StrV {
		return Value{}, runtimeErr("sqlite.execute expects an Int handle and Str SQL")
	}
	params := sqlParams(args[2:])
	res, err := db.Exec(args[1].Str(), params...)
	if err != nil {
		return Value{}, runtimeErr("sqlite.execute: %v", err)
	}
	n, _ := res.RowsAffected()
	return IntValue(n), nil
}

// sqliteQuery returns rows as a list of dicts keyed by column name.
func sqliteQuery(ip *Interp, args []Value) (Value, error) {
	db, err := ip.dbHandle("sqlite.query", args)
	if err != nil {
		return Value{}, err
	}
	if len(args) < 2 || args[1].Tag != StrV {
		return Value{}, runtimeErr("sqlite.query expects an Int handle and Str SQL")
	}
	params := sqlParams(args[2:])
	rows, err := db.Query(args[1].Str(), params...)
	if err != nil {
		return Value{}, runtimeErr("sqlite.query: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Value{}, runtimeErr("sqlite.query: %v", err)
	}
	var out []Value
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Value{}, runtimeErr("sqlite.query: %v", err)
		}
		entries := make(map[string]Value, len(cols))
		for i, c := range cols {
			entries[c] = sqlToValue(raw[i])
		}
		out = append(out, DictValue(entries))
	}
	if err := rows.Err(); err != nil {
		return Value{}, runtimeErr("sqlite.query: %v", err)
	}
	return ListValue(out), nil
}

func sqliteClose(ip *Interp, args []Value) (Value, error) {
	db, err := ip.dbHandle("sqlite.close", args)
	if err != nil {
		return Value{}, err
	}
	if err := db.Close(); err != nil {
		return Value{}, runtimeErr("sqlite.close: %v", err)
	}
	delete(ip.dbs, args[0].Int())
	return NoneValue(), nil
}

func sqlParams(args []Value) []interface{} {
	params := make([]interface{}, len(args))
	for i, a := range args {
		switch a.Tag {
		case IntV:
			params[i] = a.Int()
		case FloatV:
			params[i] = a.Float()
		case StrV:
			params[i] = a.Str()
		case BoolV:
			params[i] = a.Bool()
		default:
			params[i] = nil
		}
	}
	return params
}

func sqlToValue(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NoneValue()
	case int64:
		return IntValue(v)
	case float64:
		return FloatValue(v)
	case bool:
		return BoolValue(v)
	case string:
		return StrValue(v)
	case []byte:
		return StrValue(string(v))
	}
	return NoneValue()
}
