package cli

import (
	"slices"

	"github.com/posener/complete"

	"github.com/semmy-space/walletrunner/internal/config"
	"github.com/semmy-space/walletrunner/internal/wallet"
)

// Predictors returns the shell completion predictors keyed by the
// predictor tag used on command arguments.
func Predictors() map[string]complete.Predictor {
	open := func() (*wallet.Wallet, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return OpenWallet(cfg)
	}
	return map[string]complete.Predictor{
		"entry":  EntryPredictor(open),
		"folder": FolderPredictor(open),
	}
}

// EntryPredictor completes entry names from every folder of the wallet.
// Any failure completes nothing.
func EntryPredictor(open func() (*wallet.Wallet, error)) complete.Predictor {
	return complete.PredictFunc(func(complete.Args) []string {
		w, err := open()
		if err != nil {
			return nil
		}
		defer w.Close()

		folders, err := w.FolderList()
		if err != nil {
			return nil
		}
		var names []string
		for _, f := range folders {
			if w.SetFolder(f) != nil {
				continue
			}
			entries, err := w.EntryList()
			if err != nil {
				continue
			}
			for _, e := range entries {
				if !slices.Contains(names, e) {
					names = append(names, e)
				}
			}
		}
		return names
	})
}

// FolderPredictor completes named folders.
func FolderPredictor(open func() (*wallet.Wallet, error)) complete.Predictor {
	return complete.PredictFunc(func(complete.Args) []string {
		w, err := open()
		if err != nil {
			return nil
		}
		defer w.Close()

		folders, err := w.FolderList()
		if err != nil {
			return nil
		}
		return slices.DeleteFunc(folders, func(f string) bool { return f == wallet.DefaultFolder })
	})
}
