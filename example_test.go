package html2text_test

import (
	"fmt"

	"github.com/alnah/go-html2text"
)

// Example demonstrates a one-off conversion.
func Example() {
	text := html2text.ConvertHTMLToPlainText("<h1>Welcome</h1><p>Thanks for <b>joining</b>!</p>", "en")
	fmt.Println(text)
	// Output:
	// WELCOME
	//
	// Thanks for JOINING!
}

// Example_links demonstrates link footnotes resolved against a base URL.
func Example_links() {
	conv, err := html2text.NewConverter(html2text.WithBaseURL("https://example.com/"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(conv.Convert(`<p>Read the <a href="/docs">docs</a> or <a href="mailto:help@example.com">ask</a>.</p>`, "en"))
	// Output:
	// Read the docs [1] or ask [2].
	//
	// Links:
	// -------
	// [1] https://example.com/docs
	// [2] mailto:help@example.com
}

// Example_locale demonstrates the localized footnote header.
func Example_locale() {
	fmt.Println(html2text.LinksLabel("cs"))
	fmt.Println(html2text.LinksLabel("fr"))
	// Output:
	// Odkazy
	// Links
}

// ExampleConverter_MustAddRule demonstrates chaining custom rules.
func ExampleConverter_MustAddRule() {
	conv, err := html2text.NewConverter(html2text.WithWidth(0))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	conv.
		MustAddRule(`(?i)<code[^>]*>(.*?)</code>`, "`${1}`").
		MustAddRule(`(?i)<kbd[^>]*>(.*?)</kbd>`, "[${1}]")

	fmt.Println(conv.Convert("<p>Run <code>make</code>, then press <kbd>Enter</kbd>.</p>", "en"))
	// Output: Run `make`, then press [Enter].
}

// ExampleOptionsFromMap demonstrates building options from decoded JSON.
func ExampleOptionsFromMap() {
	opts, err := html2text.OptionsFromMap(map[string]any{
		"baseUrl": "https://example.com",
		"width":   float64(20),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	conv, err := html2text.NewConverter(opts...)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(conv.Convert("<p>The quick brown fox jumps over the lazy dog</p>", "en"))
	// Output:
	// The quick brown fox
	// jumps over the lazy
	// dog
}
