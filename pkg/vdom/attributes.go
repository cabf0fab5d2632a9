package vdom

import (
	"strconv"
	"strings"
)

// attr creates an attribute with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute from one or more class names.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TestID sets data-testid, the attribute the vtest harness looks elements up by.
func TestID(id string) Attr { return Data("testid", id) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Disabled sets the disabled boolean attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Role sets the ARIA role.
func Role(role string) Attr { return attr("role", role) }

// TabIndex sets the tab order.
func TabIndex(index int) Attr { return attr("tabindex", strconv.Itoa(index)) }
