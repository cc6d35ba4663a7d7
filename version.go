package main

const version = "0.2.0"
