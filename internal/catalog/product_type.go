package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrUnknownType = fmt.Errorf("%w: unknown product type", ErrNotFound)
)

// ProductType tags which catalog collection a product belongs to.
type ProductType string

const (
	TypePC         ProductType = "pc"
	TypeKeyboard   ProductType = "keyboard"
	TypeMonitor    ProductType = "monitor"
	TypeMouse      ProductType = "mouse"
	TypeHeadphones ProductType = "headphones"
)

type typeInfo struct {
	displayName string
	hasSize     bool
	hasColor    bool
}

// typeTable is the single registry of product types; listing order is the
// order categories appear in the storefront.
var typeTable = []struct {
	t    ProductType
	info typeInfo
}{
	{TypePC, typeInfo{displayName: "PC Armadas"}},
	{TypeKeyboard, typeInfo{displayName: "Teclados"}},
	{TypeMonitor, typeInfo{displayName: "Monitores", hasSize: true}},
	{TypeMouse, typeInfo{displayName: "Mouses", hasColor: true}},
	{TypeHeadphones, typeInfo{displayName: "Audífonos", hasColor: true}},
}

func lookupType(t ProductType) (typeInfo, bool) {
	for _, e := range typeTable {
		if e.t == t {
			return e.info, true
		}
	}
	return typeInfo{}, false
}

// Types returns every product type in storefront order.
func Types() []ProductType {
	out := make([]ProductType, len(typeTable))
	for i, e := range typeTable {
		out[i] = e.t
	}
	return out
}

func ParseProductType(s string) (ProductType, error) {
	t := ProductType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

func (t ProductType) Valid() bool {
	_, ok := lookupType(t)
	return ok
}

func (t ProductType) DisplayName() string {
	info, _ := lookupType(t)
	return info.displayName
}

// HasSize reports whether products of this type carry a screen size.
func (t ProductType) HasSize() bool {
	info, _ := lookupType(t)
	return info.hasSize
}

// HasColor reports whether products of this type carry a color.
func (t ProductType) HasColor() bool {
	info, _ := lookupType(t)
	return info.hasColor
}
