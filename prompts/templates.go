// CLAUDE:SUMMARY Instruction templates: embedded numbered-section .txt files, parsed once and cached, with {payload} filling.
package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

//go:embed instructions/*.txt
var instructionFS embed.FS

// Placeholder replaced by the serialized payload slice when filling.
const Placeholder = "{payload}"

// headerRE matches a numbered section header: a dashed line, "N) TITLE",
// and another dashed line.
var headerRE = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*\n[ \t]*(\d+)\)[^\n]+\n[ \t]*-{3,}[ \t]*$`)

var templateCache = struct {
	sync.Mutex
	files map[string]map[int]string
}{files: map[string]map[int]string{}}

// parseInstructionFile splits one instruction file into numbered section
// bodies. The catalog is static, so parsed files are cached for the life of
// the process.
func parseInstructionFile(name string) (map[int]string, error) {
	templateCache.Lock()
	defer templateCache.Unlock()
	if sections, ok := templateCache.files[name]; ok {
		return sections, nil
	}

	raw, err := instructionFS.ReadFile("instructions/" + name)
	if err != nil {
		return nil, fmt.Errorf("read instruction file %s: %w", name, err)
	}
	text := string(raw)

	headers := headerRE.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil, fmt.Errorf("no section headers found in %s", name)
	}

	sections := map[int]string{}
	for i, h := range headers {
		num, _ := strconv.Atoi(text[h[2]:h[3]])
		start := h[1]
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		sections[num] = strings.TrimSpace(text[start:end])
	}

	templateCache.files[name] = sections
	return sections, nil
}

// Template returns the raw instruction text for a task, before payload
// substitution.
func Template(spec TaskSpec) (string, error) {
	sections, err := parseInstructionFile(spec.TemplateFile)
	if err != nil {
		return "", err
	}
	tmpl, ok := sections[spec.TemplateIndex]
	if !ok {
		return "", fmt.Errorf("section %d not found in %s for task %s",
			spec.TemplateIndex, spec.TemplateFile, spec.Name)
	}
	return tmpl, nil
}

// Fill loads the task's template and substitutes the payload slice into the
// {payload} placeholder. A template without the placeholder is a catalog
// defect and returns an error.
func Fill(spec TaskSpec, sliceJSON string) (string, error) {
	tmpl, err := Template(spec)
	if err != nil {
		return "", err
	}
	if !strings.Contains(tmpl, Placeholder) {
		return "", fmt.Errorf("template for task %s (section %d in %s) has no %s placeholder",
			spec.Name, spec.TemplateIndex, spec.TemplateFile, Placeholder)
	}
	return strings.ReplaceAll(tmpl, Placeholder, sliceJSON), nil
}
