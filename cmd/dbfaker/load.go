package main

import (
	"fmt"

	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/model"
	"github.com/alfredjeanlab/dbfaker/internal/store"
)

// loadDocument reads the configuration file, fills the connection from the
// environment and validates both halves.
func loadDocument(path string) (*config.Document, store.Dialect, error) {
	doc, err := config.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	doc.Connection.ApplyEnv()
	if err := doc.Connection.Validate(); err != nil {
		return nil, "", err
	}
	dialect, err := store.ParseDialect(doc.Connection.Driver)
	if err != nil {
		return nil, "", err
	}
	if len(doc.Tables) == 0 {
		return nil, "", fmt.Errorf("%s: no tables configured", path)
	}
	if err := model.ValidateTables(doc.Tables); err != nil {
		return nil, "", err
	}
	return doc, dialect, nil
}
