// Command tinydb is a small demonstration driver: it brings up an engine
// over a data directory, runs a batch of statements, and prints each
// statement's result. It is not an interactive console.
package main

import (
	"flag"
	"fmt"
	"strings"

	"tinydb/internal/engine"
	"tinydb/internal/value"
)

func main() {
	dataRoot := flag.String("data", "./tinydb-data", "data root directory")
	flag.Parse()

	eng, err := engine.New(*dataRoot, nil)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	defer eng.Close()

	batch := strings.Join([]string{
		"CREATE DATABASE demo;",
		"USE demo;",
		"CREATE TABLE users (id INT PRIMARY KEY, name STRING(32), active BOOL);",
		"INSERT INTO users VALUES (1, 'Alice', true);",
		"INSERT INTO users VALUES (2, 'Bob', false);",
		"SELECT * FROM users;",
		"SELECT * FROM users WHERE active = true;",
	}, " ")

	for _, res := range eng.Execute(batch) {
		printResult(res)
	}
}

func printResult(res engine.QueryResult) {
	if !res.Success() {
		fmt.Println("ERROR:", res.ErrorMessage)
		return
	}
	fmt.Printf("%s (%d row(s))\n", res.Kind, res.RecordsFound)
	if len(res.Columns) == 0 {
		return
	}
	fmt.Println(strings.Join(res.Columns, " | "))
	for _, row := range res.Rows {
		var parts []string
		for _, col := range res.Columns {
			parts = append(parts, formatValue(row[col]))
		}
		fmt.Println(strings.Join(parts, " | "))
	}
}

func formatValue(v value.Value) string {
	switch v.Type {
	case value.Int:
		return fmt.Sprintf("%d", v.I)
	case value.Float:
		return fmt.Sprintf("%f", v.F)
	case value.Str, value.Char:
		return v.S
	case value.Bool:
		if v.B {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
