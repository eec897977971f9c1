/*
Package status renders sharing progress and results for a terminal user.

🎯 Purpose:
- Implement share.Reporter on top of pterm printers
- Format per-plugin results and the final summary with fatih/color
- Ask yes/no questions for the plugin-installed hook

📝 Everything printed for the user is also logged through zerolog, so a
--debug run keeps a machine readable trail next to the friendly output.
Failures are always printed with counts; the individual failed paths are
listed when the reporter is created with listFailures.
*/
package status
