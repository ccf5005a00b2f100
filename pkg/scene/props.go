package scene

// PropKind tags the payload of a PropValue.
type PropKind int

const (
	PropString PropKind = iota
	PropNumber
	PropBool
)

// PropValue is one custom property value. Numbers stay float64 so the
// exporter can apply its precision formatting; strings pass through
// untouched.
type PropValue struct {
	Kind PropKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue, NumberValue and BoolValue build tagged property values.
func StringValue(s string) PropValue { return PropValue{Kind: PropString, Str: s} }
func NumberValue(n float64) PropValue {
	return PropValue{Kind: PropNumber, Num: n}
}
func BoolValue(b bool) PropValue { return PropValue{Kind: PropBool, Bool: b} }

// Property is one custom key/value pair.
type Property struct {
	Key   string
	Value PropValue
}

// Properties preserves author order, which the exporter keeps when writing
// entity keys. Duplicate keys keep the last value but the first position.
type Properties []Property

// Set appends or replaces a key in place.
func (p *Properties) Set(key string, v PropValue) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = v
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: v})
}

// Get returns the value for key and whether it exists.
func (p Properties) Get(key string) (PropValue, bool) {
	for i := range p {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return PropValue{}, false
}
