// Package handle defines the capability interface satisfied by every
// constructed device or connection object, and ships default handle kinds
// for one device type and two connection types (serial and network-shell).
//
// The shipped connection handles do not implement real I/O. They delegate
// to a Transport obtained from an injectable TransportOpener, which is
// where serial lines, SSH channels and test fakes plug in.
package handle
