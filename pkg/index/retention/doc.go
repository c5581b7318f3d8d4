// Package retention prunes old runs from the declaration index.
//
// A Pruner deletes runs older than the configured number of days. A Scheduler
// runs the pruner on a cron schedule ("0 3 * * *" for daily at 3 AM) while a
// long-lived process such as `idlwrap watch` is running.
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *",
//	}, logger)
//	if err := pruner.Scheduler().Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package retention
