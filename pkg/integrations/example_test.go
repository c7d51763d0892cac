package integrations_test

import (
	"fmt"

	"github.com/matzehuels/stackprov/pkg/integrations"
)

func ExampleNormalizePkgName() {
	// Package names are normalized to lowercase with hyphens
	fmt.Println(integrations.NormalizePkgName("Django_REST"))
	fmt.Println(integrations.NormalizePkgName("  Spaces  "))
	// Output:
	// django-rest
	// spaces
}

func ExamplePathEscape() {
	fmt.Println(integrations.PathEscape("Newtonsoft.Json"))
	fmt.Println(integrations.PathEscape("a b"))
	// Output:
	// Newtonsoft.Json
	// a%20b
}
