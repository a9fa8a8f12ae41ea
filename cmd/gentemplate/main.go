package main

import (
	"flag"
	"fmt"
	"os"

	"qt-verify/internal/notice"
)

func main() {
	out := flag.String("o", "notice_template.docx", "Where to write the release-notice template")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := notice.WriteTemplate(f); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Template written to %s (placeholders: %v)\n", *out, notice.Placeholders)
}
