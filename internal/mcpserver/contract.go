package mcpserver

// CatalogFormatContract describes the documents the catalog is loaded from.
const CatalogFormatContract = `# Folio Catalog Format

The catalog is read from every ` + "`" + `.yaml` + "`" + `, ` + "`" + `.yml` + "`" + ` and ` + "`" + `.md` + "`" + ` file under the
content directory, in path order. Hidden files and directories are skipped.
Projects keep the order in which they appear; that order is the catalog order
used by every listing.

## YAML documents

` + "```" + `yaml
modules:                  # OPTIONAL – declared module universe, in display order
  - Vibe Coding
  - AI Workflow
projects:
  - id: P1                # REQUIRED – unique across all documents
    module: Vibe Coding   # REQUIRED – must be a declared module when any are declared
    category: Category A
    title: Speech pipeline
    subtitle: Batch transcription
    description: Free text.
    coreSkills: [Python, CUDA]
    evidence:
      - label: Repo
        href: https://github.com/example/speech
    suggestedMetrics: [Throughput]
    deliverables: [Runbook]
    tags: [ML, Pipeline]  # exact, case-sensitive
    status: Ready         # OPTIONAL – Ready or WIP
    featuredRank: 1       # OPTIONAL – positive; lower ranks are featured first
    proofPoints: []
    sections:
      goal: One sentence.
      pipeline: []
      hardProblems: []
      outcomes: []
      repro: []
      evidence: []
` + "```" + `

Unknown keys are rejected.

## Markdown documents

A Markdown document holds exactly one project. The YAML frontmatter carries
the project fields; the body becomes ` + "`" + `description` + "`" + ` when the frontmatter
does not set one.

` + "```" + `markdown
---
id: P6
module: AI Workflow
title: Schema extraction
tags: [Schema, QC]
featuredRank: 2
---

Extraction of structured notes from free text.
` + "```" + `

## Rules

1. Empty text fields are allowed and mean the content is not written yet.
2. Every evidence link needs both ` + "`" + `label` + "`" + ` and ` + "`" + `href` + "`" + `. An href starting
   with ` + "`" + `http://` + "`" + ` or ` + "`" + `https://` + "`" + ` is shown as an external link.
3. When no document declares ` + "`" + `modules` + "`" + `, the universe is derived from the
   projects in first-seen order.
4. A catalog that breaks any rule is rejected as a whole; a running server keeps
   serving the previous catalog.
`
