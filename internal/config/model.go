package config

import "time"

// File is the decoded configuration file. Nil pointers mean "not set".
type File struct {
	Precision *int      `hcl:"precision,optional"`
	Seed      []string  `hcl:"seed,optional"`
	Units     []*Unit   `hcl:"unit,block"`
	Currency  *Currency `hcl:"currency,block"`
	Storage   *Storage  `hcl:"storage,block"`
}

// Unit is a `unit "<name>"` block. An empty definition declares a new base
// unit.
type Unit struct {
	Name       string `hcl:"name,label"`
	Definition string `hcl:"definition,optional"`
}

// Currency is the `currency` block.
type Currency struct {
	Enabled *bool  `hcl:"enabled,optional"`
	URL     string `hcl:"url,optional"`
	Timeout string `hcl:"timeout,optional"`

	// TimeoutDuration is Timeout parsed during Load.
	TimeoutDuration time.Duration
}

// Storage is the `storage` block.
type Storage struct {
	Kind      string `hcl:"kind,optional"`
	Path      string `hcl:"path,optional"`
	HostURL   string `hcl:"host_url,optional"`
	Namespace string `hcl:"namespace,optional"`
	WidgetID  string `hcl:"widget_id,optional"`
}
