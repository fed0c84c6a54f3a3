package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by "category seed".
type SeedFile struct {
	Categories []string `yaml:"categories"`
}

// NewCategoryCommand creates the category command group.
func NewCategoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage listing categories",
	}
	cmd.AddCommand(newCategoryAddCommand(rootOpts))
	cmd.AddCommand(newCategorySeedCommand(rootOpts))
	return cmd
}

func newCategoryAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Create one or more categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			_, auction := newServices(cfg, db, db.Categories())
			for _, name := range args {
				c, err := auction.AddCategory(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created category %q\n", c.Name)
			}
			return nil
		},
	}
}

func newCategorySeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create the categories listed in a YAML file, skipping existing ones",
		Long: `Create the categories listed in a YAML file. The file has a single
"categories" key holding a list of names. Categories that already exist are
skipped, so seeding the same file twice is harmless.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			seed, err := loadSeedFile(args[0])
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			_, auction := newServices(cfg, db, db.Categories())
			added, err := auction.SeedCategories(cmd.Context(), seed.Categories)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d new of %d categories\n", added, len(seed.Categories))
			return nil
		},
	}
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeedFile(data)
}

// parseSeedFile decodes data strictly: unknown keys are rejected.
func parseSeedFile(data []byte) (*SeedFile, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(seed.Categories) == 0 {
		return nil, errors.New("seed file lists no categories")
	}
	return &seed, nil
}
