// internal/status/constants.go
package status

// Group Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerGroup is the fixed number of logical slots per option byte group.
const SlotsPerGroup = 12

// ---- SLOT INDICES ----

// SlotHealthCode holds the group health state.
const SlotHealthCode = 0

// SlotLastFaultCode holds the code of the last fault (0 = none).
const SlotLastFaultCode = 1

// SlotConsecutiveFaults counts iterations in a row that faulted on this group.
const SlotConsecutiveFaults = 2

// SlotRewrites counts cell rewrites since start.
const SlotRewrites = 3

// SlotValueLow / SlotValueHigh hold the decoded register halves.
const SlotValueLow = 4
const SlotValueHigh = 5

// SlotValid is 1 when every cell of the group decodes.
const SlotValid = 6

// SlotLive is the number of leading slots that change at runtime.
const SlotLive = 7

// ---- RESERVED RANGE ----

// Slot 7 is reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 7

// ---- GROUP NAME ----

// SlotGroupNameStart is the first slot used for the group name.
// Group name is always placed at the END of the status block.
const SlotGroupNameStart = 8

// SlotGroupNameSlots is the number of slots reserved for the group name.
const SlotGroupNameSlots = 4

// SlotGroupNameEnd is the last slot used for the group name (inclusive).
const SlotGroupNameEnd = SlotGroupNameStart + SlotGroupNameSlots - 1

// ---- LIMITS ----

// GroupNameMaxChars is the maximum number of ASCII characters stored for the group name.
const GroupNameMaxChars = 8

// ---- HEALTH CODES ----

// HealthUnknown represents a group not yet visited.
const HealthUnknown uint16 = 0

// HealthOK represents a group already at its factory value.
const HealthOK uint16 = 1

// HealthRestored represents a group rewritten in the last iteration.
const HealthRestored uint16 = 2

// HealthFault represents a group whose reset faulted.
const HealthFault uint16 = 3

// HealthSkipped represents a group not attempted because an earlier group faulted.
const HealthSkipped uint16 = 4
