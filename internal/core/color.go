package core

// Color is the role of a screen cell. The viewer maps roles to terminal
// colors, so drawing code never deals with escape codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorEmpty         // tile 0x00
	ColorFloor         // plain floor
	ColorTile          // any other drawable tile
	ColorInvalid       // tile code without a sheet slot
	ColorFront
	ColorHazard // chompers, spikes, loose floors
	ColorGate   // gates and raise buttons
	ColorGuard
	ColorPotion
	ColorPrince
	ColorTrigger // exit and save triggers, door images
	ColorCursor
	ColorDim
)
