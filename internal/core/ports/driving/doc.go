// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): the CLI, or any surrounding application such
// as a bot conversation layer. Only plain data crosses this boundary.
package driving
