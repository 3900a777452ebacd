// internal/morse/table.go
// Package morse decodes Morse code from a periodically sampled light sensor.
package morse

// Unknown is returned by Lookup for codes with no table entry. Unknown codes
// surface in decoded output rather than being dropped, so the receiver keeps
// a visible record that something was received even if undecodable.
const Unknown = '?'

// symbolTable maps dot/dash code strings to their decoded characters
// (ITU letters A-Z and digits 0-9).
var symbolTable = map[string]rune{
	".-":   'A',
	"-...": 'B',
	"-.-.": 'C',
	"-..":  'D',
	".":    'E',
	"..-.": 'F',
	"--.":  'G',
	"....": 'H',
	"..":   'I',
	".---": 'J',
	"-.-":  'K',
	".-..": 'L',
	"--":   'M',
	"-.":   'N',
	"---":  'O',
	".--.": 'P',
	"--.-": 'Q',
	".-.":  'R',
	"...":  'S',
	"-":    'T',
	"..-":  'U',
	"...-": 'V',
	".--":  'W',
	"-..-": 'X',
	"-.--": 'Y',
	"--..": 'Z',

	"-----": '0',
	".----": '1',
	"..---": '2',
	"...--": '3',
	"....-": '4',
	".....": '5',
	"-....": '6',
	"--...": '7',
	"---..": '8',
	"----.": '9',
}

// Lookup returns the character for a dot/dash code string.
// It is total: codes absent from the table (including the empty string)
// return Unknown, never an error.
func Lookup(code string) rune {
	if c, ok := symbolTable[code]; ok {
		return c
	}
	return Unknown
}
