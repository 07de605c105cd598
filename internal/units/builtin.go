package units

import "math"

type unitSpec struct {
	names    []string
	factor   float64
	offset   float64
	dim      Dimension
	prefixes prefixSet
}

const (
	minute = 60.0
	hour   = 60 * minute
	day    = 24 * hour
	year   = 365.25 * day
)

var (
	dimLength   = Dim(Length, 1)
	dimMass     = Dim(Mass, 1)
	dimTime     = Dim(Time, 1)
	dimTemp     = Dim(Temperature, 1)
	dimInfo     = Dim(Information, 1)
	dimAngle    = Dim(Angle, 1)
	dimVolume   = Dim(Length, 3)
	dimFreq     = Dim(Time, -1)
	dimSpeed    = Dim(Length, 1, Time, -1)
	dimForce    = Dim(Mass, 1, Length, 1, Time, -2)
	dimEnergy   = Dim(Mass, 1, Length, 2, Time, -2)
	dimPower    = Dim(Mass, 1, Length, 2, Time, -3)
	dimPressure = Dim(Mass, 1, Length, -1, Time, -2)
	dimCurrent  = Dim(Current, 1)
	dimVoltage  = Dim(Mass, 1, Length, 2, Time, -3, Current, -1)
	dimAmount   = Dim(Amount, 1)
	dimCurrency = Dim(Currency, 1)
)

// builtinUnits is the fixed catalogue. Factors are expressed in SI base
// units (m, kg, s, K, bit, rad); grams are 1e-3 so that "kg" is exact.
var builtinUnits = []unitSpec{
	// length
	{names: []string{"m", "meter", "meters", "metre", "metres"}, factor: 1, dim: dimLength, prefixes: siPrefixes},
	{names: []string{"inch", "inches"}, factor: 0.0254, dim: dimLength},
	{names: []string{"ft", "foot", "feet"}, factor: 0.3048, dim: dimLength},
	{names: []string{"yd", "yard", "yards"}, factor: 0.9144, dim: dimLength},
	{names: []string{"mi", "mile", "miles"}, factor: 1609.344, dim: dimLength},
	{names: []string{"nmi"}, factor: 1852, dim: dimLength},

	// mass
	{names: []string{"g", "gram", "grams"}, factor: 1e-3, dim: dimMass, prefixes: siPrefixes},
	{names: []string{"t", "tonne", "tonnes"}, factor: 1000, dim: dimMass},
	{names: []string{"lb", "lbs", "pound", "pounds"}, factor: 0.45359237, dim: dimMass},
	{names: []string{"oz", "ounce", "ounces"}, factor: 0.028349523125, dim: dimMass},

	// time
	{names: []string{"s", "sec", "second", "seconds"}, factor: 1, dim: dimTime, prefixes: siPrefixes},
	{names: []string{"min", "mins", "minute", "minutes"}, factor: minute, dim: dimTime},
	{names: []string{"h", "hr", "hour", "hours"}, factor: hour, dim: dimTime},
	{names: []string{"day", "days"}, factor: day, dim: dimTime},
	{names: []string{"week", "weeks"}, factor: 7 * day, dim: dimTime},
	{names: []string{"month", "months"}, factor: year / 12, dim: dimTime},
	{names: []string{"year", "years", "yr"}, factor: year, dim: dimTime},

	// temperature
	{names: []string{"K", "kelvin"}, factor: 1, dim: dimTemp},
	{names: []string{"degC", "celsius"}, factor: 1, offset: 273.15, dim: dimTemp},
	{names: []string{"degF", "fahrenheit"}, factor: 5.0 / 9.0, offset: 459.67, dim: dimTemp},

	// information
	{names: []string{"b", "bit", "bits"}, factor: 1, dim: dimInfo, prefixes: binaryPrefixes},
	{names: []string{"B", "byte", "bytes"}, factor: 8, dim: dimInfo, prefixes: binaryPrefixes},

	// angle
	{names: []string{"rad", "radian", "radians"}, factor: 1, dim: dimAngle},
	{names: []string{"deg", "degree", "degrees"}, factor: math.Pi / 180, dim: dimAngle},

	// volume
	{names: []string{"L", "l", "liter", "liters", "litre", "litres"}, factor: 1e-3, dim: dimVolume, prefixes: siPrefixes},
	{names: []string{"gal", "gallon", "gallons"}, factor: 0.003785411784, dim: dimVolume},

	// derived
	{names: []string{"Hz", "hertz"}, factor: 1, dim: dimFreq, prefixes: siPrefixes},
	{names: []string{"N", "newton", "newtons"}, factor: 1, dim: dimForce, prefixes: siPrefixes},
	{names: []string{"J", "joule", "joules"}, factor: 1, dim: dimEnergy, prefixes: siPrefixes},
	{names: []string{"Wh"}, factor: hour, dim: dimEnergy, prefixes: siPrefixes},
	{names: []string{"W", "watt", "watts"}, factor: 1, dim: dimPower, prefixes: siPrefixes},
	{names: []string{"Pa", "pascal"}, factor: 1, dim: dimPressure, prefixes: siPrefixes},
	{names: []string{"A", "ampere", "amperes"}, factor: 1, dim: dimCurrent, prefixes: siPrefixes},
	{names: []string{"V", "volt", "volts"}, factor: 1, dim: dimVoltage, prefixes: siPrefixes},
	{names: []string{"mol"}, factor: 1, dim: dimAmount, prefixes: siPrefixes},

	// speed
	{names: []string{"mph"}, factor: 1609.344 / hour, dim: dimSpeed},
	{names: []string{"kph"}, factor: 1000 / hour, dim: dimSpeed},
	{names: []string{"knot", "knots"}, factor: 1852 / hour, dim: dimSpeed},

	// currency; further codes are defined from exchange rates at runtime
	{names: []string{"USD", "usd"}, factor: 1, dim: dimCurrency},
}
