package history

import "fmt"

// Feature describes where one feature's history lives and how its
// exports are tagged.
type Feature struct {
	Name       string
	Key        string
	Tag        string
	FilePrefix string
	DefaultMax int
}

var (
	Calculator = Feature{
		Name:       "calculator",
		Key:        "smartcalc_history_calculator",
		Tag:        "SmartCalc Calculator History",
		FilePrefix: "smartcalc-history",
		DefaultMax: 20,
	}
	Converter = Feature{
		Name:       "converter",
		Key:        "conversion_history",
		Tag:        "SmartCalc Conversion History",
		FilePrefix: "smartcalc-conversions",
		DefaultMax: 30,
	}
	Scientific = Feature{
		Name:       "scientific",
		Key:        "scientific_history",
		Tag:        "SmartCalc Scientific History",
		FilePrefix: "smartcalc-scientific",
		DefaultMax: 50,
	}
)

// Features lists every feature in display order.
func Features() []Feature {
	return []Feature{Calculator, Converter, Scientific}
}

// LookupFeature finds a feature by name.
func LookupFeature(name string) (Feature, error) {
	for _, f := range Features() {
		if f.Name == name {
			return f, nil
		}
	}
	return Feature{}, fmt.Errorf("unknown feature %q: must be one of calculator, converter, scientific", name)
}
