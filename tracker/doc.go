/*
Package tracker contains the editing model of the radix editor.

The tracker package defines the Model struct, which holds the opus being
edited, the cursor, the undo ledger and the queue of updates the view drains
to know what to redraw.

Every edit is recorded: before a primitive mutates a beat, the command that
reverts it is pushed to the current undo batch. Model.OpenMulti and
Model.CloseMulti group several edits into one batch, and Model.Undo replays
the last batch. Beats in a link pool are edited together.

The UI does not modify the opus directly, rather, there are types Action,
Bool and Int which can be used to manipulate the model in a controlled way.
For example, model.SplitAtCursor() returns an Action splitting the grouping
under the cursor, which can be executed with model.SplitAtCursor().Do().
*/
package tracker
