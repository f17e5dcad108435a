// internal/poller/catalog.go
package poller

import "github.com/tamzrod/twiirl/internal/device"

// CatalogEntry pairs a printed label with the device bit it reports.
type CatalogEntry struct {
	Label string
	Code  device.Button
}

// Catalog lists the reported buttons in report order.
// Home is not listed: it is the activation button.
var Catalog = []CatalogEntry{
	{Label: "A", Code: device.ButtonA},
	{Label: "B", Code: device.ButtonB},
	{Label: "Up", Code: device.ButtonUp},
	{Label: "Down", Code: device.ButtonDown},
	{Label: "Left", Code: device.ButtonLeft},
	{Label: "Right", Code: device.ButtonRight},
	{Label: "Plus", Code: device.ButtonPlus},
	{Label: "Minus", Code: device.ButtonMinus},
	{Label: "One", Code: device.ButtonOne},
	{Label: "Two", Code: device.ButtonTwo},
}

// Activation is the button whose just-pressed edge flips motion reporting.
var Activation = CatalogEntry{Label: "Home", Code: device.ButtonHome}
