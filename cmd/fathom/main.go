// Package main provides the Fathom framework CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.0.1-dev"

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Fathom %s\n", version)
		return
	}

	fmt.Println("Fathom - Tensor data model for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
}
