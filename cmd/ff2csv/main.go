/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// ff2csv converts a flat file's record table into CSV, with ISO-ms
// timestamps and leap-second instants rendered with a 60 in the seconds
// field.
package main

import "github.com/facebook/flatfile/cmd/ff2csv/cmd"

func main() {
	cmd.Execute()
}
