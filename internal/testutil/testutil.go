package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/avido/experiments-data-api/log"
	. "github.com/onsi/ginkgo"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

// ExpectJSON fails the running test with a readable diff when actual and expected hold
// different JSON documents.
func ExpectJSON(actual string, expected string) {
	diff, err := DiffJSON(actual, expected)
	if err != nil {
		Fail(err.Error())
		return
	}
	if diff != "" {
		Fail(fmt.Sprintf("json documents differ:\n%s", diff))
	}
}

// DiffJSON returns the diff between the indented forms of both documents, empty when they are equal.
func DiffJSON(actual string, expected string) (string, error) {
	a, err := indent(actual)
	if err != nil {
		return "", fmt.Errorf("invalid actual json: %s", err)
	}
	e, err := indent(expected)
	if err != nil {
		return "", fmt.Errorf("invalid expected json: %s", err)
	}
	if a == e {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(e, a, false)
	return dmp.DiffPrettyText(diffs), nil
}

func indent(document string) (string, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(document), &value); err != nil {
		return "", err
	}
	// Marshal sorts map keys so equal documents produce equal text
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}
