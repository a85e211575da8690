package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the local key-value store",
	Long: `Lists or deletes the keys smartcalc keeps in its local database: the three
histories, the theme and the angle mode. Deleting a key resets that
setting or history to its default on the next start.`,
}

var storageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		keys, err := a.Storage.Keys(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("Nothing stored yet.")
			return nil
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

var storageDeleteCmd = &cobra.Command{
	Use:   "delete <key>...",
	Short: "Delete stored keys",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, k := range args {
			if err := a.Storage.Delete(cmd.Context(), k); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", k)
		}
		return nil
	},
}

func init() {
	storageCmd.AddCommand(storageListCmd, storageDeleteCmd)
	rootCmd.AddCommand(storageCmd)
}
