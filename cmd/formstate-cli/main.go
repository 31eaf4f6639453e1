// Command formstate-cli validates payloads against a schema document from
// the terminal: point it at a JSON Schema (JSON or YAML) or an OpenAPI
// operation, feed it a JSON payload file, or answer prompts interactively.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/adapters/jsonschema"
	"github.com/goliatone/go-formstate/pkg/adapters/openapi"
	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func main() {
	schemaPath := flag.String("schema", "", "schema document path or URL (JSON Schema or OpenAPI)")
	format := flag.String("format", "jsonschema", "schema format: jsonschema or openapi")
	operationID := flag.String("operation", "", "OpenAPI operation id (required with -format openapi)")
	inputPath := flag.String("input", "", "JSON payload file to validate (stdin when \"-\")")
	interactive := flag.Bool("interactive", false, "prompt for field values instead of reading a payload")
	strict := flag.Bool("strict", false, "validate without overlaying schema defaults")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *schemaPath == "" {
		logger.Fatal().Msg("-schema is required")
	}

	ctx := context.Background()
	adapter, err := loadAdapter(ctx, *schemaPath, *format, *operationID)
	if err != nil {
		logger.Fatal().Err(err).Msg("load schema")
	}
	logger.Debug().Str("adapter", adapter.Name()).Str("schema", *schemaPath).Msg("schema loaded")

	var source any
	switch {
	case *interactive:
		record, err := promptRecord(adapter.Schema())
		if err != nil {
			logger.Fatal().Err(err).Msg("collect answers")
		}
		source = record
	case *inputPath != "":
		record, err := readPayload(*inputPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("read payload")
		}
		source = record
	default:
		logger.Info().Msg("no payload supplied; producing the default form")
	}

	opts := []forms.Option{}
	if *strict {
		opts = append(opts, forms.WithStrict())
	}
	if source != nil {
		// Partial records never surface errors by default; the CLI exists
		// to report them.
		opts = append(opts, forms.WithErrors(true))
	}

	form, err := forms.SuperValidate(ctx, source, adapter, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("validate")
	}

	encoded, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("encode form")
	}
	fmt.Println(string(encoded))

	if !form.Valid {
		os.Exit(1)
	}
}

func loadAdapter(ctx context.Context, location, format, operationID string) (forms.Adapter, error) {
	source := schema.SourceFromFile(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		source = schema.SourceFromURL(location)
	}

	loader := schema.NewLoader(
		schema.WithHTTPClient(nil),
		schema.WithRequestTimeout(10*time.Second),
	)
	doc, err := loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	switch format {
	case "jsonschema":
		return jsonschema.FromDocument(doc)
	case "openapi":
		return openapi.FromBytes(ctx, doc.Raw(), operationID)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func readPayload(path string) (forms.Record, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	record := forms.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return record, nil
}

// promptRecord walks the schema's top-level fields and asks for each one.
// Answers are coerced to the declared type; values that fail coercion pass
// through as strings so validation reports them.
func promptRecord(s schema.Schema) (forms.Record, error) {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	record := forms.Record{}
	for _, name := range names {
		prop := s.Properties[name]
		value, err := promptField(name, prop, s.IsRequired(name))
		if err != nil {
			return nil, err
		}
		if value != nil {
			record[name] = value
		}
	}
	return record, nil
}

func promptField(name string, prop schema.Schema, required bool) (any, error) {
	message := name
	if prop.Title != "" {
		message = fmt.Sprintf("%s (%s)", prop.Title, name)
	}

	var opts []survey.AskOpt
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	switch prop.Type {
	case schema.TypeBoolean:
		answer := false
		if def, ok := prop.Default.(bool); ok {
			answer = def
		}
		err := survey.AskOne(&survey.Confirm{Message: message, Default: answer}, &answer)
		return answer, err

	case schema.TypeArray:
		var answer string
		err := survey.AskOne(&survey.Input{Message: message + " (comma separated)"}, &answer, opts...)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			return nil, nil
		}
		parts := strings.Split(answer, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, coerceAnswer(strings.TrimSpace(part), itemSchema(prop)))
		}
		return out, nil

	default:
		if len(prop.Enum) > 0 {
			options := make([]string, 0, len(prop.Enum))
			for _, entry := range prop.Enum {
				options = append(options, fmt.Sprint(entry))
			}
			var answer string
			err := survey.AskOne(&survey.Select{Message: message, Options: options}, &answer, opts...)
			if err != nil {
				return nil, err
			}
			return coerceAnswer(answer, prop), nil
		}

		var answer string
		err := survey.AskOne(&survey.Input{Message: message}, &answer, opts...)
		if err != nil {
			return nil, err
		}
		if answer == "" && !required {
			return nil, nil
		}
		return coerceAnswer(answer, prop), nil
	}
}

func itemSchema(prop schema.Schema) schema.Schema {
	if prop.Items != nil {
		return *prop.Items
	}
	return schema.Schema{}
}

func coerceAnswer(raw string, prop schema.Schema) any {
	switch prop.Type {
	case schema.TypeNumber:
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return parsed
		}
	case schema.TypeInteger:
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return parsed
		}
	case schema.TypeBoolean:
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return raw
}
