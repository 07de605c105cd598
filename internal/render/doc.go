/*
Package render prints notebook lines as colored text and builds the help
panel shared by every front end.

# Layout

Each line is one row: a right-aligned 1-based line number, the input, and
the result pushed to the right edge. Results are green, errors red and
comments gray. Colors follow gookit/color, so NO_COLOR and non-terminal
outputs get plain text.

# Help

Help topics are plain data. Text wraps to the requested width with
go-wordwrap.
*/
package render
