package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PythonNut/vimish-fold/pkg/foldpath"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <document>",
	Short: "Print the state file path for a document",
	Long: `Print the state file a document's folds persist to.

Examples:
  # Where do this file's folds live?
  foldctl encode ~/notes/plan.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <state-file>",
	Short: "Print the document path a state file belongs to",
	Long: `Print the document path encoded in a state file name. Accepts a
full path or a bare file name.

Examples:
  # Which document does this state file belong to?
  foldctl decode '!home!user!notes!plan.txt'`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	codec := foldpath.Codec{Dir: cfg.StateDir, Escape: foldpath.DefaultEscape}
	if err := codec.Validate(); err != nil {
		return err
	}

	docPath, err := foldpath.Canonicalize(args[0])
	if err != nil {
		return fmt.Errorf("failed to canonicalize %s: %w", args[0], err)
	}

	fmt.Println(codec.Encode(docPath))
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	codec := foldpath.Codec{Dir: cfg.StateDir, Escape: foldpath.DefaultEscape}
	if err := codec.Validate(); err != nil {
		return err
	}

	docPath, err := codec.Decode(args[0])
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	fmt.Println(docPath)
	return nil
}
