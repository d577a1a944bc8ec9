// Package config loads process settings from the environment and the
// table/field configuration document from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// ErrMissingParam is returned when a required connection parameter is unset
// in both the document and the environment.
var ErrMissingParam = errors.New("missing connection parameter")

// Connection holds the database connection parameters. Port is kept as text
// since it is only ever rendered into a DSN.
type Connection struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Document is a parsed configuration file. Tables keep document order.
type Document struct {
	Connection Connection
	Tables     []model.Table
}

// Format identifies the syntax of a configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadFile reads and parses the configuration document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	doc, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a configuration document.
func Parse(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatTOML:
		return parseTOML(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

func parseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty config document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.New("config document must be a mapping")
	}

	doc := &Document{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "connection":
			var raw map[string]any
			if err := val.Decode(&raw); err != nil {
				return nil, fmt.Errorf("connection: %w", err)
			}
			doc.Connection = connectionFromMap(raw)
		case "tables":
			tables, err := yamlTables(val)
			if err != nil {
				return nil, err
			}
			doc.Tables = tables
		}
	}
	return doc, nil
}

func yamlTables(node *yaml.Node) ([]model.Table, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tables: expected a mapping (line %d)", node.Line)
	}

	var tables []model.Table
	for i := 0; i+1 < len(node.Content); i += 2 {
		table := model.Table{Name: node.Content[i].Value}
		fields := node.Content[i+1]
		if fields.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(fields.Content); j += 2 {
				name := fields.Content[j].Value
				var raw any
				if err := fields.Content[j+1].Decode(&raw); err != nil {
					return nil, fmt.Errorf("tables.%s.%s: %w", table.Name, name, err)
				}
				spec, err := model.ParseFieldSpec(raw)
				if err != nil {
					return nil, fmt.Errorf("tables.%s.%s: %w", table.Name, name, err)
				}
				table.Fields = append(table.Fields, model.Field{Name: name, Spec: spec})
			}
		} else if !(fields.Kind == yaml.ScalarNode && fields.Tag == "!!null") {
			return nil, fmt.Errorf("tables.%s: expected a mapping of fields (line %d)", table.Name, fields.Line)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func parseTOML(data []byte) (*Document, error) {
	var raw struct {
		Connection map[string]any            `toml:"connection"`
		Tables     map[string]map[string]any `toml:"tables"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	// Decoding into maps loses order; recover it from the key list, which
	// follows the document.
	var tableOrder []string
	fieldOrder := make(map[string][]string)
	seen := make(map[string]bool)
	for _, k := range md.Keys() {
		if len(k) < 2 || k[0] != "tables" {
			continue
		}
		if !seen[k[1]] {
			seen[k[1]] = true
			tableOrder = append(tableOrder, k[1])
		}
		if len(k) == 3 {
			fieldOrder[k[1]] = append(fieldOrder[k[1]], k[2])
		}
	}

	doc := &Document{Connection: connectionFromMap(raw.Connection)}
	for _, name := range tableOrder {
		table := model.Table{Name: name}
		for _, field := range fieldOrder[name] {
			spec, err := model.ParseFieldSpec(raw.Tables[name][field])
			if err != nil {
				return nil, fmt.Errorf("tables.%s.%s: %w", name, field, err)
			}
			table.Fields = append(table.Fields, model.Field{Name: field, Spec: spec})
		}
		doc.Tables = append(doc.Tables, table)
	}
	return doc, nil
}

func connectionFromMap(m map[string]any) Connection {
	str := func(key string) string {
		v, ok := m[key]
		if !ok || v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return Connection{
		Driver:   str("driver"),
		Host:     str("host"),
		Port:     str("port"),
		User:     str("user"),
		Password: str("password"),
		DBName:   str("dbname"),
	}
}

// ApplyEnv fills every unset connection parameter from its environment
// variable.
func (c *Connection) ApplyEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.Driver, "DB_DRIVER")
	fill(&c.Host, "SQL_HOST")
	fill(&c.Port, "DB_PORT")
	fill(&c.User, "DB_USER")
	fill(&c.Password, "DB_PASS")
	fill(&c.DBName, "DB_NAME")
	if c.Driver == "" {
		c.Driver = "mysql"
	}
}

// Validate reports the first required parameter that is still unset.
func (c Connection) Validate() error {
	for _, p := range []struct {
		value, what, key, env string
	}{
		{c.Host, "database host", "host", "SQL_HOST"},
		{c.Port, "database port", "port", "DB_PORT"},
		{c.User, "database user", "user", "DB_USER"},
		{c.Password, "database password", "password", "DB_PASS"},
		{c.DBName, "database name", "dbname", "DB_NAME"},
	} {
		if p.value == "" {
			return fmt.Errorf("%w: specify a %s with connection.%s in the config or %s in the environment",
				ErrMissingParam, p.what, p.key, p.env)
		}
	}
	return nil
}
