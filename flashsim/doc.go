// Package flashsim provides simulated storage devices for the EEPROM shim: an in-memory NOR flash with fault
// injection, a NOR flash backed by an image file, and an in-memory native EEPROM.
//
// The flash simulations enforce NOR semantics. Programming a byte ANDs the new value into the stored one, so bits
// can only go from 1 to 0, and only a sector erase brings them back to 1.
package flashsim
