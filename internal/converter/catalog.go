package converter

import "slices"

// Category names as the service knows them.
var categories = []string{
	"Longueur",
	"Masse",
	"Température",
	"Temps",
	"Volume",
	"Surface",
	"Vitesse",
	"Données",
}

var descriptions = map[string]map[string]string{
	"Longueur": {
		"m":   "Metre",
		"km":  "Kilometre",
		"cm":  "Centimetre",
		"mm":  "Millimetre",
		"μm":  "Micrometre",
		"nm":  "Nanometre",
		"in":  "Inch",
		"ft":  "Foot",
		"yd":  "Yard",
		"mi":  "Mile",
		"nmi": "Nautical mile",
	},
	"Masse": {
		"kg": "Kilogram",
		"g":  "Gram",
		"mg": "Milligram",
		"μg": "Microgram",
		"t":  "Tonne",
		"lb": "Pound",
		"oz": "Ounce",
		"st": "Stone",
		"ct": "Carat",
	},
	"Température": {
		"°C": "Celsius",
		"°F": "Fahrenheit",
		"K":  "Kelvin",
		"°R": "Rankine",
	},
	"Temps": {
		"s":   "Second",
		"ms":  "Millisecond",
		"μs":  "Microsecond",
		"ns":  "Nanosecond",
		"min": "Minute",
		"h":   "Hour",
		"j":   "Day",
		"sem": "Week",
		"an":  "Year",
	},
	"Volume": {
		"L":        "Litre",
		"mL":       "Millilitre",
		"m³":       "Cubic metre",
		"cm³":      "Cubic centimetre",
		"ft³":      "Cubic foot",
		"in³":      "Cubic inch",
		"gal (US)": "US gallon",
		"gal (UK)": "Imperial gallon",
		"pt (US)":  "US pint",
		"pt (UK)":  "Imperial pint",
	},
	"Surface": {
		"m²":  "Square metre",
		"km²": "Square kilometre",
		"cm²": "Square centimetre",
		"mm²": "Square millimetre",
		"ha":  "Hectare",
		"ac":  "Acre",
		"ft²": "Square foot",
		"in²": "Square inch",
		"mi²": "Square mile",
	},
	"Vitesse": {
		"m/s":  "Metres per second",
		"km/h": "Kilometres per hour",
		"mph":  "Miles per hour",
		"nœud": "Knot",
		"ft/s": "Feet per second",
	},
	"Données": {
		"o":   "Byte",
		"Ko":  "Kilobyte",
		"Mo":  "Megabyte",
		"Go":  "Gigabyte",
		"To":  "Terabyte",
		"Kio": "Kibibyte",
		"Mio": "Mebibyte",
		"Gio": "Gibibyte",
		"Tio": "Tebibyte",
	},
}

// Categories lists the conversion categories in display order.
func Categories() []string {
	return slices.Clone(categories)
}

// KnownCategory reports whether name is one of Categories.
func KnownCategory(name string) bool {
	return slices.Contains(categories, name)
}

// UnitDescription is one line of the units guide.
type UnitDescription struct {
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// Describe pairs each unit with its human-readable name. Units without a
// known name are described by their symbol.
func Describe(category string, units []string) []UnitDescription {
	names := descriptions[category]
	out := make([]UnitDescription, 0, len(units))
	for _, u := range units {
		d, ok := names[u]
		if !ok {
			d = u
		}
		out = append(out, UnitDescription{Unit: u, Description: d})
	}
	return out
}
