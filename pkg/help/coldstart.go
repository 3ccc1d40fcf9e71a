package help

const ColdstartYAML = `# minutedigest Quick Start

stages:
  extract: "Collect document IDs from the portal search form into catalog.yaml"
  download: "Click through the portal's two-step export for each document"
  summarize: "Write a Gemini summary next to each downloaded PDF"
  run: "All three stages in one invocation"

commands:
  full_pipeline: |
    minutedigest run

  limited_trial: |
    minutedigest run --max 3

  extract_only: |
    minutedigest extract --catalog catalog.yaml

  download_from_catalog: |
    minutedigest download --catalog catalog.yaml --max 10

  download_explicit_links: |
    minutedigest download --links "https://portal.example.com/Portal/DocView.aspx?id=27355"

  summarize_downloads: |
    minutedigest summarize

  redo_summaries: |
    minutedigest summarize --force

  list_runs: |
    minutedigest runs list
    minutedigest runs list --failed

  run_details: |
    minutedigest runs show 5

configuration:
  - "config.yaml next to the binary; every selector and timeout lives there"
  - "GOOGLE_API_KEY environment variable (or gemini.api_key in config.yaml)"
  - "Missing config file means built-in defaults for the St. Charles portal"

key_files:
  - "catalog.yaml (per-category document IDs from the extract stage)"
  - "pdfs_to_process/ (downloaded PDFs, plus pages/ with saved portal HTML)"
  - "summaries/<name>_summary.txt (one summary per PDF)"
  - "summaries/run_manifest.json (machine-readable report of the last run)"
  - "minutedigest.db (SQLite history of every run)"

failure_model:
  - "Missing browser or API key aborts the stage with exit code 1"
  - "A failing document is logged, screenshotted, and skipped"
  - "Failed summaries are written as readable error text, never silently dropped"
`
