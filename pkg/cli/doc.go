/*
Package cli provides command-line helpers shared by the idlwrap commands.

Output Formatting:

Command results can be written as text, JSON or CSV. Values that implement
Table render as rows in CSV and as aligned columns in text:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Progress Reporting:

Long directory checks report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for i, file := range files {
		check(file)
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Exit Codes:

ExitCode maps an error returned by a command to the process exit status:
0 for success, 1 when a check found problems, 2 for usage or configuration
errors.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
