// internal/status/constants.go
package status

// Machine Status Block layout constants.
// These values define the register protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerMachine is the fixed number of registers per machine block.
const SlotsPerMachine = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the machine health state.
const SlotHealthCode = 0

// SlotBalance holds the credited coin count.
const SlotBalance = 1

// SlotValidity holds the pending validity code (0 = none).
const SlotValidity = 2

// SlotMotorRunning is 1 while a dispense is being driven.
const SlotMotorRunning = 3

// SlotScreen holds the screen currently shown.
const SlotScreen = 4

// SlotDispensedHi and SlotDispensedLo hold the completed dispense count
// as one big-endian 32-bit value.
const SlotDispensedHi = 5
const SlotDispensedLo = 6

// SlotCoins holds the accepted coin count.
const SlotCoins = 7

// SlotRefused holds the insufficient-funds count.
const SlotRefused = 8

// SlotRejected holds the count of selections rejected while a verdict was pending.
const SlotRejected = 9

// ---- RESERVED ----

// Slot 10 is reserved.
const SlotReserved = 10

// SlotLiveEnd is one past the last slot that changes at runtime.
const SlotLiveEnd = SlotReserved

// ---- MACHINE NAME ----

// SlotMachineNameStart is the first slot used for the machine name.
const SlotMachineNameStart = 11

// SlotMachineNameSlots is the number of slots reserved for the machine name.
const SlotMachineNameSlots = 8

// SlotMachineNameEnd is the last slot used for the machine name (inclusive).
const SlotMachineNameEnd = SlotMachineNameStart + SlotMachineNameSlots - 1

// ---- LIMITS ----

// MachineNameMaxChars is the maximum number of ASCII characters stored for the name.
const MachineNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the first tick.
const HealthUnknown uint16 = 0

// HealthOK represents a running machine.
const HealthOK uint16 = 1
