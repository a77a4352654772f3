package terminal

// Color is a 24-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette holds the 16 standard ANSI colors, reproduced exactly for
// snapshot compatibility with the reference terminal.
var Palette = [16]Color{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}

// DefaultFg and DefaultBg are the colors of a freshly reset or default cell.
var (
	DefaultFg = Palette[7]
	DefaultBg = Palette[0]
)
