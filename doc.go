// Package bootkit is an application microframework. It boots a program
// from its command line, registers its components in dependency order,
// loads configuration, hands it to every component, injects declared
// dependencies, runs the selected command and shuts components down in
// reverse order.
//
// A program declares its configuration type, its components and a command
// line, then boots:
//
//	type Config struct {
//	    Addr string `toml:"addr" default:":8080"`
//	}
//
//	var cell = bootkit.NewCell[*bootkit.StdApplication[Config]]()
//
//	func main() {
//	    app := bootkit.New[Config]("demo", bootkit.WithComponents(NewStore()))
//	    entry := command.NewEntryPoint(command.Info{Name: "demo", Version: "1.0.0"},
//	        command.Subcommand{Use: "start", Run: start})
//	    bootkit.Boot(cell, app, entry)
//	}
//
// Boot exits with status 0 on success or after printing help, 2 for invalid
// arguments and 1 for any failure, after printing
// "<app> fatal error: <message>".
package bootkit
