package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Shoes", "shoes"},
		{"spaces", "Running Shoes", "running-shoes"},
		{"punctuation stripped", "Black & White T-Shirt!", "black-white-t-shirt"},
		{"underscores collapse", "hello__world  foo", "hello-world-foo"},
		{"leading and trailing trimmed", "  --Sale!-- ", "sale"},
		{"mixed separators", "a _ b-  c", "a-b-c"},
		{"digits kept", "iPhone 15 Pro", "iphone-15-pro"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Derive(tc.in))
		})
	}
}

func TestDeriveDeterministic(t *testing.T) {
	inputs := []string{"The Shoe Story", "Món ăn ngon", "A   B_C"}
	for _, in := range inputs {
		assert.Equal(t, Derive(in), Derive(in))
	}
}

func TestDeriveCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for _, in := range []string{"Running Shoes", "Summer SALE 2024", "tips & tricks"} {
		got := Derive(in)
		assert.Regexp(t, valid, got, "slug %q for input %q", got, in)
	}
}
