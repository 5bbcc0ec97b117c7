package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/isync/internal/crypto"
)

// NewTokenCommand создает команду генерации общего токена
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Generate a new shared sync token",
		Long: `Generate a random shared token for control nodes.

The token is never sent over the network. Distribute it to every control node
out of band, for example with ISYNC_TOKEN or a token file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := crypto.GenerateToken()
			if err != nil {
				return err
			}
			opts.IO.Println(token)
			return nil
		},
	}
}
