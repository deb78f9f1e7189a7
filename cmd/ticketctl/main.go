// Command ticketctl 票务市场命令行客户端
package main

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

func main() {
	Execute()
}
