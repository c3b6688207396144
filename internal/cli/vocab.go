package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/importer"
	"github.com/example/wordbook/pkg/models"
)

func newVocabCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage word lists and words",
	}
	cmd.AddCommand(
		newVocabListsCmd(app),
		newVocabWordsCmd(app),
		newCreateListCmd(app),
		newUpdateListCmd(app),
		newDeleteListCmd(app),
		newAddWordCmd(app),
		newDeleteWordCmd(app),
		newLearnCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)
	return cmd
}

func newVocabListsCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show your word lists and the public ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			userID := sess.User.ID
			if all {
				userID = 0
			}
			printLists(app.out, app.client.GetWordLists(ctx, userID))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every list, including other users' private ones")
	return cmd
}

func newVocabWordsCmd(app *App) *cobra.Command {
	var (
		listID int64
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Show words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			printWords(app.out, app.client.GetWords(ctx, listID, limit))
			return nil
		},
	}
	cmd.Flags().Int64Var(&listID, "list", 0, "only this list")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum words")
	return cmd
}

type listFlags struct {
	description string
	difficulty  string
	public      bool
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().BoolVar(&f.public, "public", false, "visible to every user")
}

func newCreateListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "create-list <name>",
		Short: "Create a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			list, err := app.client.CreateWordList(ctx, models.WordList{
				Name:        args[0],
				Description: f.description,
				Difficulty:  f.difficulty,
				IsPublic:    f.public,
				CreatorID:   sess.User.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to create list: %w", err)
			}
			app.printf("Created list %d %q\n", list.ID, list.Name)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newUpdateListCmd(app *App) *cobra.Command {
	var (
		f    listFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "update-list <list-id>",
		Short: "Change a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := app.client.GetWordList(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load list: %w", err)
			}
			if cmd.Flags().Changed("name") {
				list.Name = name
			}
			if cmd.Flags().Changed("description") {
				list.Description = f.description
			}
			if cmd.Flags().Changed("difficulty") {
				list.Difficulty = f.difficulty
			}
			if cmd.Flags().Changed("public") {
				list.IsPublic = f.public
			}
			list.Words = nil
			updated, err := app.client.UpdateWordList(ctx, id, *list)
			if err != nil {
				return fmt.Errorf("failed to update list: %w", err)
			}
			app.printf("Updated list %d %q\n", updated.ID, updated.Name)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	return cmd
}

func newDeleteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-list <list-id>",
		Short: "Delete a word list and its words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteWordList(ctx, id); err != nil {
				return fmt.Errorf("failed to delete list: %w", err)
			}
			app.println("Deleted.")
			return nil
		},
	}
}

func newAddWordCmd(app *App) *cobra.Command {
	var (
		wordType    string
		phrase      string
		phraseTrans string
		difficulty  string
	)
	cmd := &cobra.Command{
		Use:   "add-word <list-id> <word> <translation>...",
		Short: "Add a word to a list",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			word := models.Word{Word: args[1], Difficulty: difficulty}
			for _, t := range args[2:] {
				word.Translations = append(word.Translations, models.Translation{Translation: t, Type: wordType})
			}
			if phrase != "" {
				word.Phrases = []models.Phrase{{Phrase: phrase, Translation: phraseTrans}}
			}
			created, err := app.client.AddWordToList(ctx, listID, word)
			if err != nil {
				return fmt.Errorf("failed to add word: %w", err)
			}
			app.printf("Added word %d %q\n", created.ID, created.Word)
			return nil
		},
	}
	cmd.Flags().StringVarP(&wordType, "type", "t", "", "part of speech, e.g. n or v")
	cmd.Flags().StringVar(&phrase, "phrase", "", "example phrase")
	cmd.Flags().StringVar(&phraseTrans, "phrase-translation", "", "translation of the phrase")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard")
	return cmd
}

func newDeleteWordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-word <word-id>",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteWord(ctx, id); err != nil {
				return fmt.Errorf("failed to delete word: %w", err)
			}
			app.println("Deleted.")
			return nil
		},
	}
}

func newLearnCmd(app *App) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "learn <list-id>",
		Short: "Flashcards over one list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := app.client.GetWordList(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load list: %w", err)
			}
			app.printf("%s (%d words)\n", list.Name, list.WordCount)
			return app.flashcards(ctx, sess.User.ID, app.drawWords(ctx, id, count))
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of cards (default: whole list)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var (
		batchSize int
		cfg       = importer.DefaultParseConfig()
	)
	cmd := &cobra.Command{
		Use:   "import <list-id> <file>",
		Short: "Import words from a .json, .csv or .xlsx file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			listID, err := parseID(args[0])
			if err != nil {
				return err
			}
			words, err := importer.ParseFile(args[1], cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = app.cfg.ImportBatchSize
			}

			im := importer.New(app.client, batchSize, app.logger)
			result, err := im.Import(ctx, listID, words, func(p importer.Progress) {
				app.printf("batch %d/%d: %d/%d words, %d failed\n", p.Batch, p.Batches, p.Done, p.Total, p.Failed)
			})
			if result != nil {
				app.printf("Imported %d of %d words, %d failed\n", result.Succeeded, result.Total, result.Failed)
				if len(result.Errors) > 0 {
					app.println(strings.Join(result.Errors, "\n"))
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "words sent in parallel per batch")
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet to read from .xlsx files")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row (1-based)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var listID int64
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export words to an Excel sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			words := app.client.GetWords(ctx, listID, 0)
			if err := importer.Export(words, args[0]); err != nil {
				return err
			}
			app.printf("Exported %d words to %s\n", len(words), args[0])
			return nil
		},
	}
	cmd.Flags().Int64Var(&listID, "list", 0, "only this list")
	return cmd
}
