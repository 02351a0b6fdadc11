// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/sqlir"
)

const (
	helperMaxBackoff = 10 * time.Second
	helperBackoffInt = 500 * time.Millisecond
)

// changesetSchema validates the helper's stdout: an array of changeset
// objects per spec.md §6's Liquibase helper protocol.
const changesetSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["changeset_id", "author", "sql", "xml_file", "xml_line", "run_in_transaction"],
		"properties": {
			"changeset_id": {"type": "string"},
			"author": {"type": "string"},
			"sql": {"type": "string"},
			"xml_file": {"type": "string"},
			"xml_line": {"type": "integer", "minimum": 1},
			"run_in_transaction": {"type": "boolean"}
		}
	}
}`

type liquibaseChangeset struct {
	ChangesetID      string `json:"changeset_id"`
	Author           string `json:"author"`
	SQL              string `json:"sql"`
	XMLFile          string `json:"xml_file"`
	XMLLine          int    `json:"xml_line"`
	RunInTransaction bool   `json:"run_in_transaction"`
}

// LiquibaseLoader loads a changelog by spawning an external helper
// process that understands Liquibase XML and reports changesets as
// JSON, per spec.md §4.7/§6.
type LiquibaseLoader struct {
	// HelperPath is the helper binary to invoke.
	HelperPath string

	schema *jsonschema.Schema
}

// NewLiquibaseLoader returns a LiquibaseLoader that invokes helperPath.
func NewLiquibaseLoader(helperPath string) (*LiquibaseLoader, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(changesetSchema))
	if err != nil {
		return nil, fmt.Errorf("compile changeset schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("changesets.json", doc); err != nil {
		return nil, fmt.Errorf("compile changeset schema: %w", err)
	}
	schema, err := compiler.Compile("changesets.json")
	if err != nil {
		return nil, fmt.Errorf("compile changeset schema: %w", err)
	}

	return &LiquibaseLoader{HelperPath: helperPath, schema: schema}, nil
}

// Load invokes the helper once per changelog path and flattens the
// changesets it reports into a MigrationHistory, in the order the
// helper emits them.
func (l *LiquibaseLoader) Load(paths []string) (MigrationHistory, error) {
	var history MigrationHistory

	for _, path := range paths {
		changesets, err := l.runHelper(path)
		if err != nil {
			return MigrationHistory{}, err
		}

		for _, cs := range changesets {
			history.Units = append(history.Units, ir.MigrationUnit{
				ID:               cs.ChangesetID,
				Statements:       locateRelativeTo(sqlir.Parse(cs.SQL), cs.XMLLine),
				SourceFile:       cs.XMLFile,
				SourceLineOffset: cs.XMLLine,
				RunInTransaction: cs.RunInTransaction,
				IsDown:           false,
			})
		}
	}

	return history, nil
}

// locateRelativeTo shifts every span produced by sqlir.Parse (which
// starts counting at line 1 of the changeset's own `sql` field) so it
// reports the changelog's absolute XML line instead.
func locateRelativeTo(stmts []ir.Located[ir.IrNode], xmlLine int) []ir.Located[ir.IrNode] {
	shift := xmlLine - 1
	out := make([]ir.Located[ir.IrNode], len(stmts))
	for i, s := range stmts {
		s.Span.StartLine += shift
		s.Span.EndLine += shift
		out[i] = s
	}
	return out
}

func (l *LiquibaseLoader) runHelper(changelogPath string) ([]liquibaseChangeset, error) {
	var stdout, stderr bytes.Buffer

	b := backoff.New(helperMaxBackoff, helperBackoffInt)
	var startErr error
	for attempt := 0; attempt < 3; attempt++ {
		stdout.Reset()
		stderr.Reset()

		cmd := exec.Command(l.HelperPath, "--changelog", changelogPath)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		startErr = cmd.Start()
		if startErr == nil {
			err := cmd.Wait()
			return l.decode(stdout.Bytes(), stderr.String(), err)
		}

		time.Sleep(b.Duration())
	}

	return nil, &LoadError{Kind: BridgeError, Path: changelogPath, Err: startErr}
}

func (l *LiquibaseLoader) decode(stdout []byte, stderr string, waitErr error) ([]liquibaseChangeset, error) {
	if waitErr != nil {
		msg := stderr
		if msg == "" {
			msg = waitErr.Error()
		}
		return nil, &LoadError{Kind: BridgeError, Err: fmt.Errorf("%s", msg)}
	}

	var raw any
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, &LoadError{Kind: BridgeError, Err: fmt.Errorf("malformed helper output: %w", err)}
	}
	if err := l.schema.Validate(raw); err != nil {
		return nil, &LoadError{Kind: BridgeError, Err: fmt.Errorf("helper output failed schema validation: %w", err)}
	}

	var changesets []liquibaseChangeset
	if err := json.Unmarshal(stdout, &changesets); err != nil {
		return nil, &LoadError{Kind: BridgeError, Err: err}
	}
	return changesets, nil
}
