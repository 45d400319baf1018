// Package entities provides the value types exchanged with contracts:
// CLType and CLValue, keys and references, named keys and runtime arguments.
// Every type has a canonical byte encoding built on the wireformat package.
package entities
