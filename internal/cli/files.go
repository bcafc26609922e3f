// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// files.go - Uploaded file management command handler for the ragdesk CLI.
//
// Command: files
// Short:   Manage tracked document uploads
//
// Examples:
//   ragdesk files list                       List tracked uploads
//   ragdesk files list --category technical  Filter by category
//   ragdesk files upload a.pdf b.md          Upload documents
//   ragdesk files upload notes.txt --category research
//   ragdesk files delete ID                  Remove a record locally
//   ragdesk files remove ID                  Delete from the backend too
//   ragdesk files category ID research       Reassign a category
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/expansionlabs/ragdesk/internal/model"
	"github.com/expansionlabs/ragdesk/internal/uploads"
)

// HandleFiles dispatches the "files" subcommands.
func HandleFiles(app *App, args Args) error {
	ctx := context.Background()

	switch args.Subcommand {
	case "", "list", "ls":
		return filesList(app, args)
	case "upload", "add":
		return filesUpload(ctx, app, args)
	case "delete", "rm":
		return filesDelete(app, args)
	case "remove":
		return filesRemove(ctx, app, args)
	case "category", "cat":
		return filesCategory(app, args)
	case "info":
		return filesInfo(ctx, app, args)
	case "download":
		return filesDownload(ctx, app, args)
	default:
		return fmt.Errorf("unknown files subcommand: %s (try list, upload, delete, remove, category, info, download)", args.Subcommand)
	}
}

// filesList shows tracked uploads, optionally filtered by category.
func filesList(app *App, args Args) error {
	category := model.CategoryAll
	if args.Category != "" {
		category = model.FileCategory(args.Category)
		if !category.Valid() && category != model.CategoryAll {
			return fmt.Errorf("unknown category: %s", args.Category)
		}
	}

	files := app.Uploads.GetByCategory(category)

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(files)
	}

	if len(files) == 0 {
		fmt.Println(DimStyle.Render("(no tracked uploads)"))
		return nil
	}

	for _, f := range files {
		status := StatusStyle(f.ProcessingStatus.String()).Render(f.ProcessingStatus.String())
		fmt.Printf("%s  %-10s %-10s %8d  %s\n",
			DimStyle.Render(f.ID),
			status,
			f.Category,
			f.Size,
			ValueStyle.Render(f.Name))
	}
	return nil
}

// filesUpload uploads one file per path argument, sequentially.
func filesUpload(ctx context.Context, app *App, args Args) error {
	paths := args.Raw
	if len(paths) > 0 && paths[0] == args.Subcommand {
		paths = paths[1:]
	}
	if len(paths) == 0 {
		return fmt.Errorf("usage: ragdesk files upload FILE [FILE...]")
	}

	category := model.CategoryGeneral
	if args.Category != "" {
		category = model.FileCategory(args.Category)
	}

	inputs := make([]uploads.FileInput, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	defer func() {
		for _, h := range handles {
			h.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		handles = append(handles, f)

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("cannot stat %s: %w", path, err)
		}
		inputs = append(inputs, uploads.FileInput{
			Name:   info.Name(),
			Size:   info.Size(),
			Reader: f,
		})
	}

	app.Uploads.UploadFiles(ctx, inputs, category)

	// Report per-file outcomes from the manager's state
	failed := 0
	files := app.Uploads.Files()
	for i := len(paths) - 1; i >= 0; i-- {
		if i >= len(files) {
			break
		}
		f := files[i]
		if f.Success {
			fmt.Printf("%s %s (%s)\n", SuccessStyle.Render("uploaded"), f.Name, DimStyle.Render(f.ID))
		} else {
			failed++
			fmt.Printf("%s %s\n", ErrorStyle.Render("failed"), f.Name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

// filesDelete removes a record locally without touching the backend.
func filesDelete(app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	if id == "" {
		return fmt.Errorf("usage: ragdesk files delete ID")
	}
	if _, ok := app.Uploads.Get(id); !ok {
		return fmt.Errorf("no tracked upload with id %s", id)
	}
	app.Uploads.DeleteFile(id)
	fmt.Println(SuccessStyle.Render("deleted ") + DimStyle.Render(id))
	return nil
}

// filesRemove deletes the document from the backend and, on success,
// removes the local record too.
func filesRemove(ctx context.Context, app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	if id == "" {
		return fmt.Errorf("usage: ragdesk files remove ID")
	}
	f, ok := app.Uploads.Get(id)
	if !ok {
		return fmt.Errorf("no tracked upload with id %s", id)
	}

	if !app.Uploads.DeleteFileFromKnowledgeBase(ctx, id) {
		return fmt.Errorf("backend delete failed for %s; record kept", f.Name)
	}
	fmt.Println(SuccessStyle.Render("removed ") + ValueStyle.Render(f.Name))
	return nil
}

// filesCategory reassigns an upload's category.
func filesCategory(app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	name := positionalAt(args, 2)
	if id == "" || name == "" {
		return fmt.Errorf("usage: ragdesk files category ID NAME (one of: %v)", model.Categories())
	}

	category := model.FileCategory(name)
	if !category.Valid() {
		return fmt.Errorf("unknown category: %s (one of: %v)", name, model.Categories())
	}
	if _, ok := app.Uploads.Get(id); !ok {
		return fmt.Errorf("no tracked upload with id %s", id)
	}

	app.Uploads.UpdateCategory(id, category)
	fmt.Printf("%s %s -> %s\n", SuccessStyle.Render("category"), DimStyle.Render(id), category)
	return nil
}

// filesInfo asks the backend for a document's current metadata. The record
// is looked up locally first so the command accepts either the local id or
// a raw backend document id.
func filesInfo(ctx context.Context, app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	if id == "" {
		return fmt.Errorf("usage: ragdesk files info ID")
	}

	docID := id
	if f, ok := app.Uploads.Get(id); ok {
		if !f.HasDocumentID() {
			return fmt.Errorf("%s never reached the backend; nothing to query", f.Name)
		}
		docID = f.DocumentID
	}

	doc, err := app.Client.Get(ctx, docID)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(doc)
	}
	fmt.Printf("%s %s\n", LabelStyle.Render("Document"), doc.DocumentID)
	fmt.Printf("%s %s\n", LabelStyle.Render("Filename"), doc.Filename)
	fmt.Printf("%s %d\n", LabelStyle.Render("Size"), doc.Size)
	if doc.Message != "" {
		fmt.Printf("%s %s\n", LabelStyle.Render("Message"), doc.Message)
	}
	return nil
}

// filesDownload fetches a document's original bytes into a local file.
func filesDownload(ctx context.Context, app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	dest := positionalAt(args, 2)
	if id == "" || dest == "" {
		return fmt.Errorf("usage: ragdesk files download ID DEST")
	}

	docID := id
	if f, ok := app.Uploads.Get(id); ok {
		if !f.HasDocumentID() {
			return fmt.Errorf("%s never reached the backend; nothing to download", f.Name)
		}
		docID = f.DocumentID
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dest, err)
	}
	defer out.Close()

	n, err := app.Client.Download(ctx, docID, out)
	if err != nil {
		os.Remove(dest)
		return err
	}
	fmt.Printf("%s %d bytes -> %s\n", SuccessStyle.Render("downloaded"), n, dest)
	return nil
}

// positionalAfterSubcommand returns the positional argument following the
// subcommand word, or "".
func positionalAfterSubcommand(args Args) string {
	return positionalAt(args, 1)
}

func positionalAt(args Args, index int) string {
	if index < 0 || index >= len(args.Raw) {
		return ""
	}
	return args.Raw[index]
}
