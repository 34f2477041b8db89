// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package configtmpl

import (
	"fmt"
	"io"
	"os"
	"strings"
)

func ExampleEnv() {
	os.Setenv("HELLO", "WORLD")
	defer os.Unsetenv("HELLO")

	fmt.Println(Env("HELLO"))
	// Output: WORLD
}

func ExampleDefault_zero() {
	var v int
	fmt.Println(Default(10, v))
	// Output: 10
}

func ExampleNewRenderer() {
	r := NewRenderer("config.yaml", strings.NewReader(`level: {{ default "info" (env "STRATA_EXAMPLE_LEVEL") }}`))

	b, err := io.ReadAll(r)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(b))
	// Output: level: info
}
