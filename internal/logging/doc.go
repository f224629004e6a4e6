// Package logging wires log/slog into cadence with a console handler for
// interactive use and a JSON handler for log files and piped output.
//
// Components obtain a child logger via NewComponentLogger so every record
// carries a stable "component" attribute that the console handler promotes
// into the message prefix.
package logging
