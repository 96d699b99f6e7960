// idlgen generates Go stubs and servant skeletons from hpp IDL files.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/idl"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inputFile   string
		outputDir   string
		packageName string
		includes    []string
		includeDirs []string
	)

	cmd := &cobra.Command{
		Use:   "idlgen",
		Short: "Generate Go bindings from CORBA IDL",
		Long: `idlgen parses hpp IDL files and generates Go client stubs and
servant skeletons for use with the hpp-corbaserver runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(inputFile, outputDir, packageName, includes, includeDirs)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "input IDL file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "generated", "output directory for generated Go files")
	cmd.Flags().StringVarP(&packageName, "package", "p", "generated", "Go package name for generated files")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "extra import paths for generated files")
	cmd.Flags().StringSliceVarP(&includeDirs, "include-dir", "I", nil, "directories searched for included IDL files")
	cmd.MarkFlagRequired("input")

	return cmd
}

func generate(inputFile, outputDir, packageName string, includes, includeDirs []string) error {
	parser := idl.NewParser()
	parser.SetIncludeHandler(func(path string) (io.Reader, error) {
		for _, dir := range includeDirs {
			if dir == "" {
				continue
			}
			if file, err := os.Open(filepath.Join(dir, path)); err == nil {
				return file, nil
			}
		}
		return os.Open(path)
	})

	idlData, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}

	if err := parser.Parse(strings.NewReader(string(idlData))); err != nil {
		log.Error().Err(err).Str("file", inputFile).Msg("failed to parse IDL")
		return err
	}

	generator := idl.NewGenerator(parser.GetRootModule(), outputDir)
	generator.SetPackageName(packageName)
	for _, inc := range includes {
		if inc != "" {
			generator.AddInclude(inc)
		}
	}

	if err := generator.Generate(); err != nil {
		log.Error().Err(err).Msg("failed to generate code")
		return err
	}

	log.Info().Str("dir", outputDir).Msg("generated Go bindings")
	return nil
}
