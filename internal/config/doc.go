// Package config loads the optional HCL configuration file.
//
// A configuration file can set the display precision, replace the seed
// lines shown on first start, define custom units, tune the currency rate
// fetch and choose the storage backend:
//
//	precision = 10
//	seed      = ["# Budget", "rent = 1200 USD"]
//
//	unit "sprint" {
//	  definition = "2 weeks"
//	}
//
//	currency {
//	  enabled = true
//	  url     = "https://open.er-api.com/v6/latest/USD"
//	  timeout = "5s"
//	}
//
//	storage {
//	  kind = "file"
//	  path = "notebook.yaml"
//	}
//
// Command-line flags that were set explicitly take precedence over values
// from the file; that merge happens in the app package.
package config
