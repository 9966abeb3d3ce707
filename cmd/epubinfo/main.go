package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yomikata/epubcore/internal/epub"
)

var rootCmd = &cobra.Command{
	Use:   "epubinfo <file.epub>",
	Short: "Inspect EPUB metadata, spine and resources",
	Long: `epubinfo opens an EPUB container and prints its package
information: version, title, metadata with refinements, and the
reading order. Flags select additional views of the publication.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		st, err := f.Stat()
		if err != nil {
			return err
		}

		pub, archive, err := epub.Open(f, st.Size())
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}

		if u, _ := cmd.Flags().GetString("read"); u != "" {
			return dumpResource(cmd.OutOrStdout(), archive, u)
		}

		printSummary(cmd.OutOrStdout(), pub)

		if ok, _ := cmd.Flags().GetBool("resources"); ok {
			printResources(cmd.OutOrStdout(), pub)
		}
		if ok, _ := cmd.Flags().GetBool("toc"); ok {
			if err := printTOC(cmd.OutOrStdout(), pub, archive); err != nil {
				return err
			}
		}
		if out, _ := cmd.Flags().GetString("cover-out"); out != "" {
			if err := writeCover(pub, archive, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cover written to %s\n", out)
		}
		return nil
	},
}

const coverThumbnailWidth = 600

func printSummary(w io.Writer, pub *epub.Publication) {
	fmt.Fprintf(w, "EPUB %s\n", pub.Version())

	if title := pub.Title(); title != nil {
		fmt.Fprintf(w, "Title: %s\n", title.Value)
	}

	for _, item := range pub.Metadata() {
		tag := ""
		if item.Legacy {
			tag = " (legacy)"
		}
		fmt.Fprintf(w, "  %s: %s%s\n", item.Property, item.Value, tag)
		for _, ref := range item.Refined {
			fmt.Fprintf(w, "    %s: %s\n", ref.Property, ref.Value)
		}
	}

	fmt.Fprintf(w, "Spine: %d of %d resources\n", pub.SpineLen(), len(pub.Resources()))
	if cover := pub.Cover(); cover != nil {
		fmt.Fprintf(w, "Cover: %s (%s)\n", cover.URL, cover.MediaType)
	}
	if nav := pub.Nav(); nav != nil {
		fmt.Fprintf(w, "Nav: %s\n", nav.URL)
	}
	if ncx := pub.LegacyTOC(); ncx != nil {
		fmt.Fprintf(w, "NCX: %s\n", ncx.URL)
	}
}

func printResources(w io.Writer, pub *epub.Publication) {
	fmt.Fprintln(w, "Resources:")
	for i, res := range pub.Resources() {
		marker := " "
		if i < pub.SpineLen() {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", marker, res.URL, res.MediaType)
	}
}

func printTOC(w io.Writer, pub *epub.Publication, archive *epub.Archive) error {
	toc, err := pub.TOC(archive)
	if err != nil {
		return err
	}
	if toc.Title != "" {
		fmt.Fprintf(w, "TOC: %s\n", toc.Title)
	} else {
		fmt.Fprintln(w, "TOC:")
	}
	printTOCEntries(w, toc.Entries, 1)
	return nil
}

func printTOCEntries(w io.Writer, entries []epub.TOCEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		target := e.URL
		if e.Fragment != "" {
			target += "#" + e.Fragment
		}
		fmt.Fprintf(w, "%s%s -> %s\n", indent, e.Label, target)
		printTOCEntries(w, e.Children, depth+1)
	}
}

func writeCover(pub *epub.Publication, archive *epub.Archive, path string) error {
	data, err := pub.CoverThumbnail(archive, coverThumbnailWidth)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func dumpResource(w io.Writer, archive *epub.Archive, u string) error {
	rc, err := archive.Reader(u)
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(w, rc)
	return err
}

func init() {
	rootCmd.Flags().Bool("resources", false, "List all resources (spine members marked *)")
	rootCmd.Flags().Bool("toc", false, "Print the table of contents from the nav document")
	rootCmd.Flags().String("cover-out", "", "Write a JPEG cover thumbnail to the given path")
	rootCmd.Flags().String("read", "", "Dump the resource at the given epub:/ URL and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
