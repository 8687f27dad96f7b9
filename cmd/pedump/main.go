// Command pedump inspects a PE/COFF image and prints a summary of its
// headers, directories, and forensic-analysis derivatives.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/halsec/pe"
	"github.com/halsec/pe/pkg/peutil"
)

type logrusLogger struct {
	entry *logrus.Entry
}

func (l logrusLogger) Logf(level pe.Level, format string, args ...any) {
	switch level {
	case pe.LevelDebug:
		l.entry.Debugf(format, args...)
	case pe.LevelInfo:
		l.entry.Infof(format, args...)
	case pe.LevelWarn:
		l.entry.Warnf(format, args...)
	case pe.LevelError:
		l.entry.Errorf(format, args...)
	}
}

type sectionSummary struct {
	Name           string  `json:"name"`
	VirtualAddress uint32  `json:"virtual_address"`
	VirtualSize    uint32  `json:"virtual_size"`
	RawSize        uint32  `json:"raw_size"`
	Entropy        float64 `json:"entropy"`
	MD5            string  `json:"md5"`
}

type resourceSummary struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Size     uint32 `json:"size"`
	FileType string `json:"file_type,omitempty"`
}

type overlaySummary struct {
	Offset   uint32 `json:"offset"`
	Size     int    `json:"size"`
	FileType string `json:"file_type,omitempty"`
}

type summary struct {
	Machine         string            `json:"machine"`
	Subsystem       string            `json:"subsystem,omitempty"`
	Characteristics []string          `json:"characteristics,omitempty"`
	EntryPoint      uint32            `json:"entry_point,omitempty"`
	ImpHash         string            `json:"imphash,omitempty"`
	RichHash        string            `json:"rich_hash,omitempty"`
	Authentihash    string            `json:"authentihash,omitempty"`
	Sections        []sectionSummary  `json:"sections,omitempty"`
	Resources       []resourceSummary `json:"resources,omitempty"`
	Overlay         *overlaySummary   `json:"overlay,omitempty"`
}

func main() {
	var jsonOutput bool
	var verbose bool

	root := &cobra.Command{
		Use:   "pedump <file>",
		Short: "Inspect a PE/COFF image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}

			h, status, err := pe.Open(args[0], pe.WithLogger(logrusLogger{entry: logrus.NewEntry(logger)}))
			if err != nil {
				return fmt.Errorf("open %s: status=%s: %w", args[0], status, err)
			}
			defer h.Close()

			s := buildSummary(h)
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSummary(s)
			return nil
		},
	}

	root.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of a text summary")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse-time diagnostics")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildSummary(h *pe.Handle) summary {
	var s summary

	if nt, ok := h.NTHeader(); ok {
		s.Machine = peutil.MachineName(nt.FileHeader.Machine)
		s.Characteristics = peutil.CharacteristicsNames(nt.FileHeader.Characteristics)
		switch oh := nt.OptionalHeader.(type) {
		case *pe.OptionalHeader32:
			s.Subsystem = peutil.SubsystemName(oh.Subsystem)
			s.EntryPoint = oh.AddressOfEntryPoint
		case *pe.OptionalHeader64:
			s.Subsystem = peutil.SubsystemName(oh.Subsystem)
			s.EntryPoint = oh.AddressOfEntryPoint
		}
	} else {
		s.Machine = "unknown (no NT header)"
	}

	if hash, ok := h.ImpHash(); ok {
		s.ImpHash = hash
	}
	if hash, ok := h.RichHeaderHash(); ok {
		s.RichHash = hash
	}
	if hash, ok := h.Authentihash(pe.AuthentihashSHA256); ok {
		s.Authentihash = hash
	}

	if sections, ok := h.SectionHeaders(); ok {
		for _, sec := range sections {
			sum := sectionSummary{
				Name:           sec.Name,
				VirtualAddress: sec.VirtualAddress,
				VirtualSize:    sec.VirtualSize,
				RawSize:        sec.SizeOfRawData,
			}
			if entropy, ok := h.SectionEntropy(sec); ok {
				sum.Entropy = entropy
			}
			if md5sum, ok := h.SectionMD5(sec); ok {
				sum.MD5 = md5sum
			}
			s.Sections = append(s.Sections, sum)
		}
	}

	if root, ok := h.Resources(); ok {
		for _, leaf := range peutil.FlattenResources(root) {
			data, _ := h.PeekResourceData(leaf.Data)
			rs := resourceSummary{
				Type:     leaf.TypeName,
				Language: leaf.LangName,
				Size:     leaf.Data.Size,
			}
			if len(data) > 0 {
				if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
					rs.FileType = kind.Extension
				}
			}
			s.Resources = append(s.Resources, rs)
		}
	}

	if overlay, ok := h.Overlay(); ok {
		ov := overlaySummary{Offset: h.Size() - uint32(len(overlay)), Size: len(overlay)}
		if kind, err := filetype.Match(overlay); err == nil && kind != filetype.Unknown {
			ov.FileType = kind.Extension
		}
		s.Overlay = &ov
	}

	return s
}

func printSummary(s summary) {
	fmt.Printf("machine:      %s\n", s.Machine)
	if s.Subsystem != "" {
		fmt.Printf("subsystem:    %s\n", s.Subsystem)
	}
	if len(s.Characteristics) > 0 {
		fmt.Printf("characteristics: %v\n", s.Characteristics)
	}
	if s.ImpHash != "" {
		fmt.Printf("imphash:      %s\n", s.ImpHash)
	}
	if s.RichHash != "" {
		fmt.Printf("rich hash:    %s\n", s.RichHash)
	}
	if s.Authentihash != "" {
		fmt.Printf("authentihash: %s\n", s.Authentihash)
	}
	for _, sec := range s.Sections {
		fmt.Printf("section %-8s va=0x%-8x vsize=0x%-8x entropy=%.2f md5=%s\n",
			sec.Name, sec.VirtualAddress, sec.VirtualSize, sec.Entropy, sec.MD5)
	}
	for _, r := range s.Resources {
		fmt.Printf("resource type=%-12s lang=%-20s size=%d type=%s\n", r.Type, r.Language, r.Size, r.FileType)
	}
	if s.Overlay != nil {
		fmt.Printf("overlay:      offset=0x%x size=%d\n", s.Overlay.Offset, s.Overlay.Size)
	}
}
