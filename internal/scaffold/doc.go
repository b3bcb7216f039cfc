// Package scaffold renders the files that seed a new task workspace from
// embedded text/template sets. Template files end in .tmpl; the extension is
// dropped from the generated file name.
package scaffold
