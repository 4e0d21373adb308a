package integrations_test

import (
	"fmt"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/integrations"
)

func ExampleURLEncode() {
	// Package names are escaped before they go into query strings
	fmt.Println(integrations.URLEncode("@scope/package"))
	fmt.Println(integrations.URLEncode("react"))
	// Output:
	// %40scope%2Fpackage
	// react
}
