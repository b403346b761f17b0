package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewAccountCmd создаёт команду account с подкомандами.
func NewAccountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Управление аккаунтами воркеров",
	}

	cmd.AddCommand(newAccountListCmd(clientFn, outputFn))

	return cmd
}

func newAccountListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список аккаунтов",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := clientFn().ListAccounts(limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "PROVIDER ID", "PHONE", "ACTIVE", "CREATED"}
			rows := make([][]string, 0, len(accounts))
			for _, a := range accounts {
				rows = append(rows, []string{
					a.ID,
					a.ProviderAccountID,
					a.Phone,
					strconv.FormatBool(a.IsActive),
					a.CreatedAt,
				})
			}

			outputFn().Print(headers, rows, accounts)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "максимум аккаунтов")

	return cmd
}
