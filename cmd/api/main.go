// @title Medicine Reminder API
// @version 1.0
// @description Registro de medicamentos, fichas de openFDA, escaneo de códigos y recordatorios por websocket.
// @BasePath /
package main

import "medicine-reminder/cmd/api/cmd"

func main() {
	cmd.Execute()
}
