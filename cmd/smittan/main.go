// Package main 启动应用程序
package main

import "github.com/datalytikasales/smittan-vibrant-ventures/pkg/cmd"

//	@title			Smittan Vibrant Ventures API
//	@version		1.0
//	@description	公司官网后端：项目相册、公司介绍、招聘、联系表单与管理员上传.

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
