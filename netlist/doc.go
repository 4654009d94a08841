/*
Package netlist provides a gate level circuit simulator and an API to compose
basic components (logic gates, adders, flip flops) into more complex ones.

The API is designed to mimic a real hardware description language. As a
result, it relies heavily on closures and can feel a bit awkward when
implementing custom components.

Wires carry three-valued logic levels (see package logic) and start in the
unknown state. A Circuit has no clock of its own: the Clk pin follows the
level given to SetClock, and Settle steps the circuit until no wire changes.
*/
package netlist
