// package formatter provides functions to export dataset samples to various formats (CSV, Markdown, transcript text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
)

// DatasetExport bundles a dataset record with its full sample directory.
type DatasetExport struct {
	Dataset models.Dataset  `json:"dataset"`
	Samples []models.Sample `json:"samples"`
}

// ExportToCSV converts a DatasetExport to CSV format with columns: ID, Filename, Text, Duration, Status, StartTime, EndTime
func ExportToCSV(export *DatasetExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Filename", "Text", "Duration", "Status", "StartTime", "EndTime"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, sample := range export.Samples {
		record := []string{
			strconv.Itoa(sample.ID),
			sample.Filename,
			sample.TextOrEmpty(),
			strconv.FormatFloat(sample.Duration, 'f', 2, 64),
			string(sample.Status),
			formatOptionalTime(sample.StartTime),
			formatOptionalTime(sample.EndTime),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a DatasetExport to Markdown format
func ExportToMarkdown(export *DatasetExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Dataset.Name))

	if export.Dataset.URL != "" {
		buf.WriteString(fmt.Sprintf("**Source**: %s\n\n", export.Dataset.URL))
	}

	buf.WriteString(fmt.Sprintf("**Status**: %s\n", export.Dataset.Status.Label()))
	buf.WriteString(fmt.Sprintf("**Samples**: %d\n", len(export.Samples)))
	if export.Dataset.Duration != nil {
		buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(*export.Dataset.Duration)))
	}
	buf.WriteString("\n## Samples\n\n")

	for i, sample := range export.Samples {
		duration := shared.FormatDuration(sample.Duration)
		text := sample.TextOrEmpty()
		if text == "" {
			text = "(no transcription)"
		}
		buf.WriteString(fmt.Sprintf("%d. `%s` [%s] %s\n", i+1, sample.Filename, duration, text))
	}

	return buf.Bytes(), nil
}

// ExportToTranscript converts a DatasetExport to pipe-delimited transcript
// lines (filename|text), the common metadata layout for speech corpora.
// Samples without transcription text are skipped.
func ExportToTranscript(export *DatasetExport) ([]byte, error) {
	var buf bytes.Buffer

	for _, sample := range export.Samples {
		text := sample.TextOrEmpty()
		if text == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("%s|%s\n", sample.Filename, text))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the dataset record (without samples)
func ToMetadataJSON(dataset models.Dataset) ([]byte, error) {
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dataset metadata: %w", err)
	}
	return data, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SamplesFile  string
	MetadataFile string
}

// WriteCSVExport exports a dataset to CSV format with accompanying metadata JSON file.
//
// Defaults to the dataset ID as the base filename & creates {base}_samples.csv and {base}_metadata.json
func WriteCSVExport(export *DatasetExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.Itoa(export.Dataset.ID)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	samplesFile := baseFilepath + "_samples.csv"
	if err := os.WriteFile(samplesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SamplesFile:  samplesFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a dataset to Markdown in a dedicated directory.
//
// Directory name defaults to the dataset ID. Creates {dir}/README.md.
func WriteMarkdownExport(export *DatasetExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = strconv.Itoa(export.Dataset.ID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTranscriptExport exports a dataset's transcript lines to a file.
//
// Defaults to {datasetID}_transcript.txt as the filename.
func WriteTranscriptExport(export *DatasetExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%d_transcript.txt", export.Dataset.ID)
	}

	textData, err := ExportToTranscript(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate transcript: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript file: %w", err)
	}

	return filepath, nil
}

func formatOptionalTime(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
