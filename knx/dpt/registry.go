// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import "fmt"

// ID identifies a KNX datapoint subtype in "main.sub" form, e.g. "9.001".
type ID string

type entry struct {
	name string
	new  func() Translator
}

var registry = map[ID]entry{
	"1.001": {"switch", func() Translator { var v Bool1; return &v }},
	"1.002": {"bool", func() Translator { var v Bool1; return &v }},
	"1.003": {"enable", func() Translator { var v Bool1; return &v }},
	"1.007": {"step", func() Translator { var v Bool1; return &v }},
	"1.008": {"up/down", func() Translator { var v Bool1; return &v }},
	"1.009": {"open/close", func() Translator { var v Bool1; return &v }},
	"1.010": {"start", func() Translator { var v Bool1; return &v }},
	"1.017": {"trigger", func() Translator { var v Bool1; return &v }},

	"2.001": {"1-bit controlled", func() Translator { return &Control1{} }},

	"3.007": {"dimming control", func() Translator { return &Control3{} }},
	"3.008": {"blind control", func() Translator { return &Control3{} }},

	"5.001": {"percentage", func() Translator { var v Unsigned8; return &v }},
	"5.003": {"angle", func() Translator { var v Unsigned8; return &v }},
	"5.004": {"percent-u8", func() Translator { var v Unsigned8; return &v }},

	"6.001": {"signed 8-bit", func() Translator { var v Signed8; return &v }},
	"6.020": {"status/mode3", func() Translator { return &StatusMode3{} }},

	"7.001": {"unsigned 16-bit", func() Translator { var v Unsigned16; return &v }},
	"7.005": {"time period (s)", func() Translator { var v Unsigned16; return &v }},

	"8.001": {"signed 16-bit", func() Translator { var v Signed16; return &v }},

	"9.001": {"temperature", func() Translator { var v Float16; return &v }},
	"9.004": {"lux", func() Translator { var v Float16; return &v }},
	"9.005": {"speed", func() Translator { var v Float16; return &v }},
	"9.007": {"humidity", func() Translator { var v Float16; return &v }},
	"9.008": {"air quality", func() Translator { var v Float16; return &v }},

	"10.001": {"time", func() Translator { return &Time{} }},
	"11.001": {"date", func() Translator { return &Date{} }},

	"12.001": {"unsigned 32-bit", func() Translator { var v Unsigned32; return &v }},
	"13.001": {"signed 32-bit", func() Translator { var v Signed32; return &v }},
	"14.056": {"power (float32)", func() Translator { var v Float32; return &v }},

	"16.000": {"string (ascii)", func() Translator { return &String14{Charset: CharsetASCII} }},
	"16.001": {"string (8859-1)", func() Translator { return &String14{Charset: CharsetLatin1} }},

	"17.001": {"scene number", func() Translator { var v SceneNumber; return &v }},
	"18.001": {"scene control", func() Translator { return &SceneControl{} }},

	"19.001": {"date-time", func() Translator { return &DateTime{} }},

	"22.101": {"HVAC status", func() Translator { return &Bitset16{} }},

	"28.001": {"utf-8", func() Translator { var v UTF8Text; return &v }},

	"29.010": {"active energy (64-bit)", func() Translator { var v Signed64; return &v }},

	"232.600": {"rgb", func() Translator { return &RGB{} }},
	"242.600": {"xyY", func() Translator { return &XYY{} }},
	"251.600": {"rgbw", func() Translator { return &RGBW{} }},
}

// Produce constructs a zero-valued Translator for the given subtype
// identifier.
func Produce(id ID) (Translator, error) {
	e, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDPT, id)
	}

	return e.new(), nil
}

// SubTypes returns every registered subtype identifier and its friendly
// name, for introspection.
func SubTypes() map[ID]string {
	out := make(map[ID]string, len(registry))
	for id, e := range registry {
		out[id] = e.name
	}

	return out
}
