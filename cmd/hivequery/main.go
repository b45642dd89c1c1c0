// Command hivequery reads REG_SZ values out of Windows registry hive files.
package main

func main() {
	execute()
}
