// Package config loads fsgen project files.
//
// A project file describes one application: the identity strings written
// into the sysinfo block, the generated output file, the preprocessed inputs
// and the target ABI. It is written in HCL:
//
//	application "blink" {
//	  version = "1.0.2"
//	  board   = "arduino_due"
//	  mcu     = "sam3x8e"
//	  output  = "build/simba_gen.c"
//	  inputs  = ["build/main.i", "build/pp"]
//
//	  abi {
//	    long_size = 4
//	  }
//	}
//
// Relative paths are resolved against the directory holding the file.
package config
