// cmd/gputracectl/display.go

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	models "gputrace/internal/server/db/models"
)

func printRunDetails(w *tabwriter.Writer, run *models.ProfileRun) {
	fmt.Fprintf(w, "Run Information\n")
	fmt.Fprintf(w, "===============\n")
	fmt.Fprintf(w, "Run ID:\t%s\n", run.ID)
	fmt.Fprintf(w, "Created:\t%s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Trace:\t%s\n", run.TracePath)
	if run.AnchorName != "" {
		fmt.Fprintf(w, "Anchor:\t%s\n", run.AnchorName)
	}
	fmt.Fprintf(w, "Decode cutoff:\t%.0f us\n", run.DecodeMaxDurationUs)

	fmt.Fprintf(w, "\nCounters\n")
	fmt.Fprintf(w, "========\n")
	fmt.Fprintf(w, "Trace events:\t%d\n", run.TotalEvents)
	fmt.Fprintf(w, "Device operations:\t%d\n", run.OperationsFound)
	fmt.Fprintf(w, "Steps found:\t%d\n", run.StepsFound)
	fmt.Fprintf(w, "Steps filtered (prefill):\t%d\n", run.StepsFiltered)
	fmt.Fprintf(w, "Steps remaining:\t%d\n", run.StepsRemaining)
	fmt.Fprintf(w, "Reference length:\t%d (tally %d)\n", run.ReferenceLength, run.ReferenceTally)
	fmt.Fprintf(w, "Count mismatches:\t%d\n", run.LengthMismatches)
	fmt.Fprintf(w, "Name mismatches:\t%d\n", run.NameMismatches)

	fmt.Fprintf(w, "\nEnvironment\n")
	fmt.Fprintf(w, "===========\n")
	fmt.Fprintf(w, "Hostname:\t%s\n", run.Environment.Hostname)
	fmt.Fprintf(w, "OS:\t%s/%s\n", run.Environment.OS, run.Environment.Arch)
	fmt.Fprintf(w, "CPU:\t%s (%d cores)\n", run.Environment.CPUModel, run.Environment.CPUCores)
	fmt.Fprintf(w, "Memory:\t%d bytes\n", run.Environment.MemoryTotal)
	for i, gpu := range run.Environment.GPUs {
		fmt.Fprintf(w, "GPU %d:\t%s (%d bytes, driver %s)\n", i+1, gpu.Model, gpu.Memory, gpu.Driver)
	}

	if len(run.Operations) > 0 {
		fmt.Fprintf(w, "\nAveraged Operations\n")
		fmt.Fprintf(w, "===================\n")
		fmt.Fprintf(w, "POS\tOPERATION\tSTART(us)\tEND(us)\tDUR(us)\tBUBBLE(us)\n")
		for _, op := range run.Operations {
			fmt.Fprintf(w, "%d\t%s\t%.3f\t%.3f\t%.3f\t%.3f\n",
				op.Position,
				op.Name,
				op.AvgStartTimeUs,
				op.AvgEndTimeUs,
				op.AvgDurationUs,
				op.BubbleTimeUs)
		}
	}
}
